package ir

import (
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/connectorgen/internal/naming"
	"github.com/erraggy/connectorgen/normalizer"
)

// PropertyType is the input type of a connection property.
type PropertyType string

// Property input types. Password values are masked by renderers.
const (
	PropertyText     PropertyType = "text"
	PropertyPassword PropertyType = "password"
)

// ConnectionProperty is one setting a connector user supplies.
type ConnectionProperty struct {
	Name        string       `json:"name"`
	Label       string       `json:"label"`
	Type        PropertyType `json:"type"`
	Required    bool         `json:"required"`
	Description string       `json:"description"`
	Default     string       `json:"default,omitempty"`
}

// ConnectionProperties derives the connection properties of an API: the
// base URL, then the credentials of each security scheme in name order.
// A credential is required when its scheme is part of global security.
func ConnectionProperties(g *normalizer.SchemaGraph) []ConnectionProperty {
	base := ConnectionProperty{
		Name:        "baseUrl",
		Label:       "API Base URL",
		Type:        PropertyText,
		Required:    true,
		Description: "Base URL of the target API (e.g., https://api.example.com/v1).",
	}
	if len(g.Servers) > 0 {
		s := g.Servers[0]
		base.Default = s.URL
		base.Description = "Base URL of the target API. Example: " + s.ResolvedURL()
	}
	props := []ConnectionProperty{base}

	for _, s := range g.SecuritySchemes {
		for _, p := range schemeProperties(s, slices.Contains(g.GlobalSecurity, s.Name)) {
			if !slices.ContainsFunc(props, func(q ConnectionProperty) bool { return q.Name == p.Name }) {
				props = append(props, p)
			}
		}
	}
	return props
}

func schemeProperties(s normalizer.SecurityScheme, required bool) []ConnectionProperty {
	prefix := naming.ToCamelCase(s.Name)
	label := naming.ToLabel(s.Name)

	switch s.Kind {
	case normalizer.SecurityAPIKey:
		key := s.ParamName
		if key == "" {
			key = s.Name
		}
		return []ConnectionProperty{{
			Name:        naming.ToCamelCase(key) + "ApiKey",
			Label:       naming.ToLabel(key) + " API Key",
			Type:        PropertyPassword,
			Required:    required,
			Description: describe(fmt.Sprintf("API key for authentication (sent as '%s' in %s).", key, s.In), s.Description),
		}}

	case normalizer.SecurityBasic:
		return []ConnectionProperty{
			{
				Name:        "httpUsername",
				Label:       "HTTP Basic Username",
				Type:        PropertyText,
				Required:    required,
				Description: describe("Username for HTTP Basic authentication.", s.Description),
			},
			{
				Name:        "httpPassword",
				Label:       "HTTP Basic Password",
				Type:        PropertyPassword,
				Required:    required,
				Description: "Password for HTTP Basic authentication.",
			},
		}

	case normalizer.SecurityBearer:
		return []ConnectionProperty{{
			Name:        prefix + "BearerToken",
			Label:       label + " Bearer Token",
			Type:        PropertyPassword,
			Required:    required,
			Description: describe("Bearer token for authentication.", s.Description),
		}}

	case normalizer.SecurityOAuth2:
		props := []ConnectionProperty{
			{
				Name:        prefix + "ClientId",
				Label:       label + " OAuth Client ID",
				Type:        PropertyText,
				Required:    true,
				Description: describe("Client ID for the OAuth2 flow.", s.Description),
			},
			{
				Name:        prefix + "ClientSecret",
				Label:       label + " OAuth Client Secret",
				Type:        PropertyPassword,
				Required:    s.Flow != "implicit",
				Description: "Client secret for the OAuth2 flow.",
			},
		}
		if s.AuthorizationURL != "" {
			props = append(props, ConnectionProperty{
				Name:        prefix + "AuthorizationUrl",
				Label:       label + " OAuth Authorization URL",
				Type:        PropertyText,
				Required:    s.Flow == "authorizationCode" || s.Flow == "implicit",
				Description: "OAuth2 authorization endpoint URL.",
				Default:     s.AuthorizationURL,
			})
		}
		if s.TokenURL != "" {
			props = append(props, ConnectionProperty{
				Name:        prefix + "TokenUrl",
				Label:       label + " OAuth Token URL",
				Type:        PropertyText,
				Required:    s.Flow == "authorizationCode" || s.Flow == "clientCredentials" || s.Flow == "password",
				Description: "OAuth2 token endpoint URL.",
				Default:     s.TokenURL,
			})
		}
		if len(s.Scopes) > 0 {
			props = append(props, ConnectionProperty{
				Name:        prefix + "Scopes",
				Label:       label + " OAuth Scopes",
				Type:        PropertyText,
				Description: "OAuth2 scopes to request (comma-separated). Available: " + strings.Join(s.Scopes, ", "),
			})
		}
		return props

	case normalizer.SecurityOpenIDConnect:
		return []ConnectionProperty{{
			Name:        prefix + "OpenIdConnectUrl",
			Label:       label + " OpenID Connect URL",
			Type:        PropertyText,
			Required:    required,
			Description: describe("OpenID Connect discovery URL.", s.Description),
			Default:     s.OpenIDConnectURL,
		}}
	}
	// Other HTTP schemes such as digest get no properties.
	return nil
}

func describe(text, extra string) string {
	if extra == "" {
		return text
	}
	return text + " " + strings.TrimSpace(extra)
}

package normalizer

import (
	"sort"
	"strings"

	"github.com/erraggy/connectorgen/cgerrors"
	"github.com/erraggy/connectorgen/internal/pathutil"
)

// oauthFlowOrder fixes which OAS 3 flow is described when several exist.
var oauthFlowOrder = []string{"authorizationCode", "clientCredentials", "password", "implicit"}

// oas2Flows maps OAS 2.0 flow names to their OAS 3 equivalents.
var oas2Flows = map[string]string{
	"accessCode":  "authorizationCode",
	"application": "clientCredentials",
	"password":    "password",
	"implicit":    "implicit",
}

// buildServers collects base URLs. OAS 2.0 host, basePath and schemes fold
// into a single server.
func (b *builder) buildServers() error {
	if b.dialect == DialectOAS2 {
		host, _ := b.root["host"].(string)
		if host == "" {
			return &cgerrors.SpecError{Kind: cgerrors.MalformedSpec, Path: "/host", Message: "no base URL declared: 'host' is missing"}
		}
		scheme := "https"
		if schemes, ok := b.root["schemes"].([]any); ok && len(schemes) > 0 {
			if s, ok := schemes[0].(string); ok && s != "" {
				scheme = s
			}
		}
		basePath, _ := b.root["basePath"].(string)
		basePath = strings.TrimSuffix(basePath, "/")
		b.graph.Servers = []Server{{URL: scheme + "://" + host + basePath}}
		return nil
	}

	servers, _ := b.root["servers"].([]any)
	for i, s := range servers {
		m, ok := s.(map[string]any)
		if !ok {
			continue
		}
		url, _ := m["url"].(string)
		if url == "" {
			b.logger.Debug("skipping server without url", "index", i)
			continue
		}
		server := Server{URL: url}
		vars, _ := m["variables"].(map[string]any)
		for _, name := range sortedKeys(vars) {
			vm, _ := vars[name].(map[string]any)
			server.Variables = append(server.Variables, ServerVariable{Name: name, Default: scalarString(vm["default"])})
		}
		b.graph.Servers = append(b.graph.Servers, server)
	}
	if len(b.graph.Servers) == 0 {
		return &cgerrors.SpecError{Kind: cgerrors.MalformedSpec, Path: "/servers", Message: "no base URL declared: 'servers' is missing or empty"}
	}
	return nil
}

// buildSecurity normalizes security declarations of both dialects.
func (b *builder) buildSecurity() error {
	var defs map[string]any
	var base string
	if b.dialect == DialectOAS2 {
		defs, _ = b.root["securityDefinitions"].(map[string]any)
		base = "/securityDefinitions/"
	} else if comps, ok := b.root["components"].(map[string]any); ok {
		defs, _ = comps["securitySchemes"].(map[string]any)
		base = "/components/securitySchemes/"
	}

	for _, name := range sortedKeys(defs) {
		at := base + pathutil.Escape(name)
		raw := defs[name]
		if m, ok := raw.(map[string]any); ok {
			if ref, ok := m["$ref"].(string); ok {
				target, err := b.lookup(ref, at+"/$ref")
				if err != nil {
					return err
				}
				raw = target
			}
		}
		m, ok := raw.(map[string]any)
		if !ok {
			return &cgerrors.SpecError{Kind: cgerrors.MalformedSpec, Path: at, Message: "security scheme must be an object"}
		}
		b.graph.SecuritySchemes = append(b.graph.SecuritySchemes, b.securityScheme(name, m))
	}

	b.graph.GlobalSecurity = requirementNames(b.root["security"])
	return nil
}

func (b *builder) securityScheme(name string, m map[string]any) SecurityScheme {
	s := SecurityScheme{Name: name}
	s.Description, _ = m["description"].(string)
	typ, _ := m["type"].(string)

	switch typ {
	case "apiKey":
		s.Kind = SecurityAPIKey
		s.In, _ = m["in"].(string)
		s.ParamName, _ = m["name"].(string)
	case "basic":
		s.Kind = SecurityBasic
	case "http":
		scheme, _ := m["scheme"].(string)
		switch strings.ToLower(scheme) {
		case "basic":
			s.Kind = SecurityBasic
		case "bearer":
			s.Kind = SecurityBearer
		default:
			s.Kind = SecurityHTTP
			s.Scheme = scheme
		}
	case "oauth2":
		s.Kind = SecurityOAuth2
		if b.dialect == DialectOAS2 {
			flow, _ := m["flow"].(string)
			s.Flow = oas2Flows[flow]
			if s.Flow == "" {
				s.Flow = flow
			}
			fillFlow(&s, m)
		} else {
			flows, _ := m["flows"].(map[string]any)
			for _, flow := range oauthFlowOrder {
				if fm, ok := flows[flow].(map[string]any); ok {
					s.Flow = flow
					fillFlow(&s, fm)
					break
				}
			}
		}
	case "openIdConnect":
		s.Kind = SecurityOpenIDConnect
		s.OpenIDConnectURL, _ = m["openIdConnectUrl"].(string)
	default:
		s.Kind = SecurityKind(typ)
	}
	return s
}

func fillFlow(s *SecurityScheme, m map[string]any) {
	s.AuthorizationURL, _ = m["authorizationUrl"].(string)
	s.TokenURL, _ = m["tokenUrl"].(string)
	if scopes, ok := m["scopes"].(map[string]any); ok {
		s.Scopes = sortedKeys(scopes)
	}
}

// requirementNames flattens a security requirement list into sorted,
// unique scheme names. An explicit empty list yields an empty, non-nil slice.
func requirementNames(raw any) []string {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	names := []string{}
	for _, req := range list {
		m, _ := req.(map[string]any)
		for name := range m {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

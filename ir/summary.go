package ir

import (
	"fmt"
	"strings"

	"github.com/erraggy/connectorgen/classifier"
	"github.com/erraggy/connectorgen/mapping"
)

// Summary renders a human-readable outline of the IR.
// The fingerprint is left out so the text only changes with the content.
func (r *IR) Summary() string {
	var b strings.Builder
	title := r.Title
	if title == "" {
		title = "(untitled API)"
	}
	fmt.Fprintf(&b, "%s (%s %s)\n", title, r.Dialect, r.APIVersion)

	b.WriteString("servers:\n")
	for _, s := range r.Servers {
		if resolved := s.ResolvedURL(); resolved != s.URL {
			fmt.Fprintf(&b, "  %s -> %s\n", s.URL, resolved)
		} else {
			fmt.Fprintf(&b, "  %s\n", s.URL)
		}
	}

	b.WriteString("object classes:\n")
	for _, oc := range r.ObjectClasses {
		fmt.Fprintf(&b, "  %s [%s] schema %s, endpoint %s\n", oc.Name, oc.LDAPName, oc.SchemaName, oc.Endpoint)
		fmt.Fprintf(&b, "    dn: %s\n", oc.DN)
		for _, a := range oc.Attributes {
			fmt.Fprintf(&b, "    - %s -> %s%s\n", a.Name, strings.Join(a.FieldPath, "."), attributeFlags(a))
		}
		for _, e := range oc.Table {
			key := classifier.Key{Category: e.Category, Scope: e.Scope}
			fmt.Fprintf(&b, "    %s -> %s", key, e.OperationID)
			if len(e.Alternates) > 0 {
				fmt.Fprintf(&b, " (alternates: %s)", strings.Join(e.Alternates, ", "))
			}
			b.WriteByte('\n')
		}
		if oc.ReadOnly {
			b.WriteString("    read-only\n")
		}
	}

	testConnect := r.TestConnect
	if testConnect == "" {
		testConnect = "(none)"
	}
	fmt.Fprintf(&b, "test connect: %s\n", testConnect)

	b.WriteString("connection properties:\n")
	for _, p := range r.ConnectionProperties {
		req := ""
		if p.Required {
			req = ", required"
		}
		fmt.Fprintf(&b, "  %s (%s%s)\n", p.Name, p.Type, req)
	}

	if len(r.SchemaExtraction) > 0 {
		b.WriteString("schema:\n")
		for _, cs := range r.SchemaExtraction {
			fmt.Fprintf(&b, "  %s:", cs.LDAPName)
			for _, a := range cs.Attributes {
				fmt.Fprintf(&b, " %s=%s", a.Name, a.Syntax)
			}
			b.WriteByte('\n')
		}
	}

	if len(r.Diagnostics) > 0 {
		b.WriteString("diagnostics:\n")
		for _, d := range r.Diagnostics {
			fmt.Fprintf(&b, "  %s\n", d)
		}
	}
	return b.String()
}

func attributeFlags(a mapping.Attribute) string {
	var on []string
	if a.PrimaryKey {
		on = append(on, "pk")
	}
	if a.MultiValued {
		on = append(on, "multi")
	}
	if a.Required {
		on = append(on, "required")
	}
	if a.ReadOnly {
		on = append(on, "readOnly")
	}
	if a.QueryParam != "" {
		on = append(on, "query="+a.QueryParam)
	}
	if len(on) == 0 {
		return ""
	}
	return " [" + strings.Join(on, ", ") + "]"
}

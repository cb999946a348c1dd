package normalizer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/erraggy/connectorgen/cgerrors"
	"github.com/erraggy/connectorgen/internal/issues"
	"github.com/erraggy/connectorgen/internal/rawdoc"
	"github.com/erraggy/connectorgen/internal/severity"
)

var (
	oas2Markers = []string{"swagger", "definitions", "securityDefinitions", "host", "basePath"}
	oas3Markers = []string{"openapi", "components", "servers"}
)

func normalize(data []byte, cfg *normalizeConfig) (*SchemaGraph, error) {
	raw, err := rawdoc.Decode(data)
	if err != nil {
		return nil, &cgerrors.SpecError{Kind: cgerrors.MalformedSpec, Path: "/", Message: "document is not valid JSON or YAML", Cause: err}
	}
	root, ok := raw.(map[string]any)
	if !ok {
		return nil, &cgerrors.SpecError{Kind: cgerrors.MalformedSpec, Path: "/", Message: "document root must be an object"}
	}

	dialect, version, err := detectDialect(root)
	if err != nil {
		return nil, err
	}
	cfg.logger.Debug("detected dialect", "dialect", dialect, "version", version)

	if cfg.strict {
		if err := validateStrict(data, dialect, version, cfg.logger); err != nil {
			return nil, err
		}
	}

	b := newBuilder(root, dialect, cfg.logger)
	b.graph.Version = version
	if info, ok := root["info"].(map[string]any); ok {
		b.graph.Title, _ = info["title"].(string)
	}
	if err := b.build(); err != nil {
		return nil, err
	}
	cfg.logger.Debug("normalized API description",
		"operations", len(b.graph.Operations),
		"nodes", len(b.graph.Nodes),
		"warnings", len(b.graph.Warnings))
	return b.graph, nil
}

// detectDialect decides between OAS 2.0 and 3.x from structural markers.
func detectDialect(root map[string]any) (Dialect, string, error) {
	var two, three []string
	for _, k := range oas2Markers {
		if _, ok := root[k]; ok {
			two = append(two, k)
		}
	}
	for _, k := range oas3Markers {
		if _, ok := root[k]; ok {
			three = append(three, k)
		}
	}
	if hasRequestBody(root) {
		three = append(three, "requestBody")
	}

	switch {
	case len(two) > 0 && len(three) > 0:
		return DialectUnknown, "", &cgerrors.SpecError{
			Kind:    cgerrors.MalformedSpec,
			Path:    "/",
			Message: fmt.Sprintf("conflicting dialect markers: OAS 2.0 (%s) and OAS 3.x (%s)", strings.Join(two, ", "), strings.Join(three, ", ")),
		}
	case len(two) > 0:
		version := scalarString(root["swagger"])
		if version != "" && version != "2.0" && version != "2" {
			return DialectUnknown, "", &cgerrors.SpecError{Kind: cgerrors.MalformedSpec, Path: "/swagger", Message: fmt.Sprintf("unsupported swagger version %q", version)}
		}
		return DialectOAS2, "2.0", nil
	case len(three) > 0:
		version := scalarString(root["openapi"])
		if version != "" && version != "3" && !strings.HasPrefix(version, "3.") {
			return DialectUnknown, "", &cgerrors.SpecError{Kind: cgerrors.MalformedSpec, Path: "/openapi", Message: fmt.Sprintf("unsupported openapi version %q", version)}
		}
		if version == "" {
			version = "3.0"
		}
		return DialectOAS3, version, nil
	default:
		return DialectUnknown, "", &cgerrors.SpecError{
			Kind:    cgerrors.MalformedSpec,
			Path:    "/",
			Message: "unable to detect dialect: document must contain 'swagger: \"2.0\"' or 'openapi: \"3.x\"' markers",
		}
	}
}

func hasRequestBody(root map[string]any) bool {
	paths, _ := root["paths"].(map[string]any)
	for _, item := range paths {
		m, _ := item.(map[string]any)
		for _, method := range methodOrder {
			if op, ok := m[method].(map[string]any); ok {
				if _, ok := op["requestBody"]; ok {
					return true
				}
			}
		}
	}
	return false
}

// validateStrict runs kin-openapi validation over OpenAPI 3.0 documents.
// Other versions are not supported by the validator and are skipped.
func validateStrict(data []byte, dialect Dialect, version string, logger Logger) error {
	if dialect != DialectOAS3 || !strings.HasPrefix(version, "3.0") {
		logger.Debug("strict validation skipped", "dialect", dialect, "version", version)
		return nil
	}
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return &cgerrors.SpecError{Kind: cgerrors.MalformedSpec, Path: "/", Message: "strict validation failed to load document", Cause: err}
	}
	ctx := loader.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if err := doc.Validate(ctx); err != nil {
		return &cgerrors.SpecError{Kind: cgerrors.MalformedSpec, Path: "/", Message: "strict validation failed", Cause: err}
	}
	return nil
}

func (b *builder) warn(code, path, msg string, op *issues.OperationContext) {
	b.logger.Warn(msg, "code", code, "path", path)
	b.graph.Warnings = append(b.graph.Warnings, issues.Issue{
		Code:             code,
		Severity:         severity.SeverityWarning,
		Path:             path,
		Message:          msg,
		OperationContext: op,
	})
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// file: internal/daemon/schemas.go
package daemon

import "github.com/dkoosis/zedrahost/internal/paramschema"

// registerSchemas installs the param shape the dispatcher validates before a
// handler ever runs, covering the required fields spec.md §6 lists for each
// method. Methods not listed here (ones with only optional fields) dispatch
// unvalidated; the handler's own requireField checks remain the backstop.
func registerSchemas(reg *paramschema.Registry) {
	must := func(method string, schema map[string]interface{}) {
		if err := reg.Register(method, schema); err != nil {
			panic(err)
		}
	}

	pathRequired := map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"path"},
		"properties": map[string]interface{}{
			"path": map[string]interface{}{"type": "string"},
		},
	}
	for _, method := range []string{"fs/list", "fs/read", "fs/stat", "fs/mkdir", "fs/remove", "lsp/diagnostics", "lsp/hover"} {
		must(method, pathRequired)
	}

	must("fs/write", map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"path", "content"},
		"properties": map[string]interface{}{
			"path":    map[string]interface{}{"type": "string"},
			"content": map[string]interface{}{"type": "string"},
		},
	})

	must("git/commit", map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"message", "paths"},
		"properties": map[string]interface{}{
			"message": map[string]interface{}{"type": "string"},
			"paths":   map[string]interface{}{"type": "array"},
		},
	})

	must("git/checkout", map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"branch"},
		"properties": map[string]interface{}{
			"branch": map[string]interface{}{"type": "string"},
		},
	})

	idRequired := map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"id"},
		"properties": map[string]interface{}{
			"id": map[string]interface{}{"type": "string"},
		},
	}
	for _, method := range []string{"terminal/data", "terminal/resize", "terminal/close"} {
		must(method, idRequired)
	}

	must("terminal/create", map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"cols", "rows"},
		"properties": map[string]interface{}{
			"cols": map[string]interface{}{"type": "integer"},
			"rows": map[string]interface{}{"type": "integer"},
		},
	})

	must("ai/prompt", map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"prompt"},
		"properties": map[string]interface{}{
			"prompt": map[string]interface{}{"type": "string"},
		},
	})
}

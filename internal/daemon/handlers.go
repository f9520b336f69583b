// file: internal/daemon/handlers.go
package daemon

import (
	"context"
	"encoding/json"

	"github.com/dkoosis/zedrahost/internal/dispatcher"
	"github.com/dkoosis/zedrahost/internal/gitops"
	"github.com/dkoosis/zedrahost/internal/rpcerr"
)

// ok is the shared {ok: true} result shape used by several handlers.
type ok struct {
	OK bool `json:"ok"`
}

var okResult = ok{OK: true}

func decodeParams(params json.RawMessage, v interface{}) error {
	if len(params) == 0 {
		return json.Unmarshal([]byte("{}"), v)
	}
	return json.Unmarshal(params, v)
}

func requireField(name, value string) error {
	if value == "" {
		return rpcerr.Newf("missing required field %q", name)
	}
	return nil
}

// --- fs/* -------------------------------------------------------------

func registerFSHandlers(reg *dispatcher.Registry, s *State) {
	reg.Register("fs/list", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p struct {
			Path string `json:"path"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, rpcerr.Wrap(err, "invalid params")
		}
		if err := requireField("path", p.Path); err != nil {
			return nil, err
		}
		entries, err := s.FS.List(p.Path)
		if err != nil {
			return nil, rpcerr.WithCategory(rpcerr.Wrap(err, "fs/list"), rpcerr.CategoryFS)
		}
		return entries, nil
	})

	reg.Register("fs/read", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p struct {
			Path string `json:"path"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, rpcerr.Wrap(err, "invalid params")
		}
		if err := requireField("path", p.Path); err != nil {
			return nil, err
		}
		content, err := s.FS.Read(p.Path)
		if err != nil {
			return nil, rpcerr.WithCategory(rpcerr.Wrap(err, "fs/read"), rpcerr.CategoryFS)
		}
		return struct {
			Content string `json:"content"`
		}{Content: content}, nil
	})

	reg.Register("fs/write", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p struct {
			Path    string `json:"path"`
			Content string `json:"content"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, rpcerr.Wrap(err, "invalid params")
		}
		if err := requireField("path", p.Path); err != nil {
			return nil, err
		}
		if err := s.FS.Write(p.Path, p.Content); err != nil {
			return nil, rpcerr.WithCategory(rpcerr.Wrap(err, "fs/write"), rpcerr.CategoryFS)
		}
		return okResult, nil
	})

	reg.Register("fs/stat", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p struct {
			Path string `json:"path"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, rpcerr.Wrap(err, "invalid params")
		}
		if err := requireField("path", p.Path); err != nil {
			return nil, err
		}
		stat, err := s.FS.Stat(p.Path)
		if err != nil {
			return nil, rpcerr.WithCategory(rpcerr.Wrap(err, "fs/stat"), rpcerr.CategoryFS)
		}
		return stat, nil
	})

	reg.Register("fs/mkdir", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p struct {
			Path string `json:"path"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, rpcerr.Wrap(err, "invalid params")
		}
		if err := requireField("path", p.Path); err != nil {
			return nil, err
		}
		if err := s.FS.Mkdir(p.Path); err != nil {
			return nil, rpcerr.WithCategory(rpcerr.Wrap(err, "fs/mkdir"), rpcerr.CategoryFS)
		}
		return okResult, nil
	})

	reg.Register("fs/remove", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p struct {
			Path string `json:"path"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, rpcerr.Wrap(err, "invalid params")
		}
		if err := requireField("path", p.Path); err != nil {
			return nil, err
		}
		if err := s.FS.Remove(p.Path); err != nil {
			return nil, rpcerr.WithCategory(rpcerr.Wrap(err, "fs/remove"), rpcerr.CategoryFS)
		}
		return okResult, nil
	})
}

// --- git/* --------------------------------------------------------------

func registerGitHandlers(reg *dispatcher.Registry, s *State) {
	openRepo := func() (*gitops.Repo, error) {
		repo, err := gitops.Open(s.WorkDir)
		if err != nil {
			return nil, rpcerr.WithCategory(rpcerr.Wrap(err, "open repo"), rpcerr.CategoryGit)
		}
		return repo, nil
	}

	reg.Register("git/status", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		repo, err := openRepo()
		if err != nil {
			return nil, err
		}
		branch, entries, err := repo.Status()
		if err != nil {
			return nil, rpcerr.WithCategory(rpcerr.Wrap(err, "git/status"), rpcerr.CategoryGit)
		}
		return struct {
			Branch  string               `json:"branch"`
			Entries []gitops.StatusEntry `json:"entries"`
		}{Branch: branch, Entries: entries}, nil
	})

	reg.Register("git/diff", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p struct {
			Path   string `json:"path"`
			Staged bool   `json:"staged"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, rpcerr.Wrap(err, "invalid params")
		}
		repo, err := openRepo()
		if err != nil {
			return nil, err
		}
		diff, err := repo.Diff(p.Path, p.Staged)
		if err != nil {
			return nil, rpcerr.WithCategory(rpcerr.Wrap(err, "git/diff"), rpcerr.CategoryGit)
		}
		return struct {
			Diff string `json:"diff"`
		}{Diff: diff}, nil
	})

	reg.Register("git/log", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p struct {
			Limit int `json:"limit"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, rpcerr.Wrap(err, "invalid params")
		}
		if p.Limit == 0 {
			p.Limit = 20
		}
		repo, err := openRepo()
		if err != nil {
			return nil, err
		}
		entries, err := repo.Log(p.Limit)
		if err != nil {
			return nil, rpcerr.WithCategory(rpcerr.Wrap(err, "git/log"), rpcerr.CategoryGit)
		}
		return entries, nil
	})

	reg.Register("git/commit", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p struct {
			Message string   `json:"message"`
			Paths   []string `json:"paths"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, rpcerr.Wrap(err, "invalid params")
		}
		if err := requireField("message", p.Message); err != nil {
			return nil, err
		}
		repo, err := openRepo()
		if err != nil {
			return nil, err
		}
		hash, err := repo.Commit(p.Message, p.Paths)
		if err != nil {
			return nil, rpcerr.WithCategory(rpcerr.Wrap(err, "git/commit"), rpcerr.CategoryGit)
		}
		return struct {
			Hash string `json:"hash"`
		}{Hash: hash}, nil
	})

	reg.Register("git/branches", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		repo, err := openRepo()
		if err != nil {
			return nil, err
		}
		branches, err := repo.Branches()
		if err != nil {
			return nil, rpcerr.WithCategory(rpcerr.Wrap(err, "git/branches"), rpcerr.CategoryGit)
		}
		return branches, nil
	})

	reg.Register("git/checkout", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p struct {
			Branch string `json:"branch"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, rpcerr.Wrap(err, "invalid params")
		}
		if err := requireField("branch", p.Branch); err != nil {
			return nil, err
		}
		repo, err := openRepo()
		if err != nil {
			return nil, err
		}
		if err := repo.Checkout(p.Branch); err != nil {
			return nil, rpcerr.WithCategory(rpcerr.Wrap(err, "git/checkout"), rpcerr.CategoryGit)
		}
		return okResult, nil
	})
}

// --- terminal/* -----------------------------------------------------------

func registerTerminalHandlers(reg *dispatcher.Registry, s *State) {
	reg.Register("terminal/create", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p struct {
			Cols uint16 `json:"cols"`
			Rows uint16 `json:"rows"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, rpcerr.Wrap(err, "invalid params")
		}
		id, err := s.Terminal.Create(p.Cols, p.Rows)
		if err != nil {
			return nil, err
		}
		return struct {
			ID string `json:"id"`
		}{ID: id}, nil
	})

	reg.Register("terminal/data", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p struct {
			ID   string `json:"id"`
			Data string `json:"data"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, rpcerr.Wrap(err, "invalid params")
		}
		if err := requireField("id", p.ID); err != nil {
			return nil, err
		}
		output, err := s.Terminal.Data(p.ID, p.Data)
		if err != nil {
			return nil, err
		}
		return struct {
			Output string `json:"output"`
		}{Output: output}, nil
	})

	reg.Register("terminal/resize", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p struct {
			ID   string `json:"id"`
			Cols uint16 `json:"cols"`
			Rows uint16 `json:"rows"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, rpcerr.Wrap(err, "invalid params")
		}
		if err := requireField("id", p.ID); err != nil {
			return nil, err
		}
		if err := s.Terminal.Resize(p.ID, p.Cols, p.Rows); err != nil {
			return nil, err
		}
		return okResult, nil
	})

	reg.Register("terminal/close", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p struct {
			ID string `json:"id"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, rpcerr.Wrap(err, "invalid params")
		}
		if err := requireField("id", p.ID); err != nil {
			return nil, err
		}
		if err := s.Terminal.Close(p.ID); err != nil {
			return nil, err
		}
		return okResult, nil
	})
}

// --- ai/* and lsp/* ---------------------------------------------------

func registerAIHandlers(reg *dispatcher.Registry, s *State) {
	reg.Register("ai/prompt", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p struct {
			Prompt  string `json:"prompt"`
			Context string `json:"context"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, rpcerr.Wrap(err, "invalid params")
		}
		if err := requireField("prompt", p.Prompt); err != nil {
			return nil, err
		}
		result, err := s.AI.Run(p.Prompt, p.Context)
		if err != nil {
			return nil, rpcerr.WithCategory(rpcerr.Wrap(err, "ai/prompt"), rpcerr.CategoryAI)
		}
		return result, nil
	})
}

func registerLSPHandlers(reg *dispatcher.Registry, s *State) {
	reg.Register("lsp/diagnostics", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p struct {
			Path string `json:"path"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, rpcerr.Wrap(err, "invalid params")
		}
		if err := requireField("path", p.Path); err != nil {
			return nil, err
		}
		diags, err := s.LSP.Diagnostics(p.Path)
		if err != nil {
			return nil, rpcerr.WithCategory(rpcerr.Wrap(err, "lsp/diagnostics"), rpcerr.CategoryLSP)
		}
		out := make([]struct {
			Message  string `json:"message"`
			Severity string `json:"severity"`
		}, len(diags))
		for i, d := range diags {
			out[i].Message = d.Message
			out[i].Severity = d.Severity
		}
		return out, nil
	})

	reg.Register("lsp/hover", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p struct {
			Path string `json:"path"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, rpcerr.Wrap(err, "invalid params")
		}
		if err := requireField("path", p.Path); err != nil {
			return nil, err
		}
		hover, err := s.LSP.Hover(p.Path, 0, 0)
		if err != nil {
			return nil, rpcerr.WithCategory(rpcerr.Wrap(err, "lsp/hover"), rpcerr.CategoryLSP)
		}
		return hover, nil
	})
}

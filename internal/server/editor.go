package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"github.com/jagadeeshD3/portfolio/internal/diff"
	"github.com/jagadeeshD3/portfolio/internal/editor"
	"github.com/jagadeeshD3/portfolio/internal/transform"
	"github.com/jagadeeshD3/portfolio/internal/typing"
)

// Messages the editor page sends over the session socket.
const (
	opType       = "type"
	opScroll     = "scroll"
	opFile       = "file"
	opReadFailed = "read_failed"
	opProcess    = "process"
	opToggleDiff = "toggle_diff"
	opClear      = "clear"
	opHideError  = "hide_error"
	opCopied     = "copied"
	opCopyFailed = "copy_failed"
)

// maxSessionMessage fits a file of editor.MaxFileSize after base64 encoding
// plus the JSON envelope.
const maxSessionMessage = editor.MaxFileSize*4/3 + 4096

type clientMessage struct {
	Op          string      `json:"op"`
	Text        string      `json:"text,omitempty"`
	Pane        editor.Pane `json:"pane,omitempty"`
	Offset      int         `json:"offset,omitempty"`
	Name        string      `json:"name,omitempty"`
	ContentType string      `json:"content_type,omitempty"`
	Data        []byte      `json:"data,omitempty"`
}

type serverMessage struct {
	Type    string           `json:"type"`
	State   *editor.Snapshot `json:"state,omitempty"`
	Tagline string           `json:"tagline,omitempty"`
}

func (s *Server) tagline() string {
	if s.cfg.Editor.Tagline != "" {
		return s.cfg.Editor.Tagline
	}
	return s.content.ChainSafe.Tagline
}

func (s *Server) setupEditorRoutes(r *gin.Engine) {
	r.GET("/chainsafe/app", func(c *gin.Context) {
		c.HTML(http.StatusOK, "editor.html", s.view(c, "ChainSafe Editor", gin.H{
			"landing": s.content.ChainSafe,
			"tagline": s.tagline(),
		}))
	})
	r.GET("/chainsafe/app/ws", s.editorSession)

	api := r.Group("/api")
	api.GET("/typing", s.typingStream)
	api.POST("/transform", s.transformAPI)
	api.POST("/transform/upload", s.uploadAPI)
}

// editorSession drives one editor.Controller from a websocket. State changes
// are pushed back as full snapshots.
func (s *Server) editorSession(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(maxSessionMessage)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	states := newLatest[editor.Snapshot]()
	frames := newLatest[string]()
	ctrl := editor.NewController(editor.Options{
		Clock:       s.clock,
		Transformer: s.transformer,
		QuietPeriod: s.cfg.Editor.QuietPeriod,
		Typing:      s.cfg.Editor.Typing,
		Tagline:     s.tagline(),
		Logger:      s.log,
		OnChange:    states.offer,
		OnTagline:   frames.offer,
	})
	defer ctrl.Close()
	states.offer(ctrl.Snapshot())

	go func() {
		defer cancel()
		for {
			var msg serverMessage
			select {
			case <-ctx.Done():
				return
			case snap := <-states.C():
				msg = serverMessage{Type: "state", State: &snap}
			case text := <-frames.C():
				msg = serverMessage{Type: "tagline", Tagline: text}
			}
			wctx, wcancel := context.WithTimeout(ctx, 10*time.Second)
			err := wsjson.Write(wctx, conn, msg)
			wcancel()
			if err != nil {
				return
			}
		}
	}()

	for {
		var in clientMessage
		if err := wsjson.Read(ctx, conn, &in); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && !errors.Is(err, context.Canceled) {
				s.log.Debug().Err(err).Msg("Editor session ended")
			}
			return
		}
		s.dispatch(ctx, ctrl, in)
	}
}

func (s *Server) dispatch(ctx context.Context, ctrl *editor.Controller, in clientMessage) {
	switch in.Op {
	case opType:
		ctrl.Type(in.Text)
	case opScroll:
		ctrl.Scroll(in.Pane, in.Offset)
	case opFile:
		_ = ctrl.DropFile(in.Name, in.ContentType, in.Data)
	case opReadFailed:
		ctrl.ReadFailed()
	case opProcess:
		// Runs in the background so a second click sees the loading flag.
		go func() {
			_ = ctrl.Process(ctx)
		}()
	case opToggleDiff:
		ctrl.ToggleDiff()
	case opClear:
		ctrl.Clear()
	case opHideError:
		ctrl.HideError()
	case opCopied:
		ctrl.Copied(in.Pane)
	case opCopyFailed:
		ctrl.CopyFailed()
	default:
		s.log.Debug().Str("op", in.Op).Msg("Unknown editor message")
	}
}

// typingStream sends the tagline animation as server-sent events. With
// ?still=1 the full tagline is sent once, as when the diff view is shown.
func (s *Server) typingStream(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	if c.Query("still") != "" {
		c.SSEvent("tagline", s.tagline())
		c.Writer.Flush()
		return
	}

	frames := newLatest[string]()
	engine := typing.New(s.clock, s.cfg.Editor.Typing, frames.offer)
	defer engine.Dispose()
	engine.Start(s.tagline())

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case text := <-frames.C():
			c.SSEvent("tagline", text)
			c.Writer.Flush()
		}
	}
}

type transformRequest struct {
	Code string `json:"code"`
}

func (s *Server) transformAPI(c *gin.Context) {
	var req transformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	out, err := transform.Invoke(c.Request.Context(), s.transformer, req.Code)
	if errors.Is(err, transform.ErrEmptyInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": editor.MsgEmptyInput})
		return
	}
	if err != nil {
		s.log.Warn().Err(err).Int("input_bytes", len(req.Code)).Msg("Transformation failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": editor.MsgInvalidCode})
		return
	}

	rows := diff.SplitView(req.Code, out)
	c.JSON(http.StatusOK, gin.H{
		"output": out,
		"diff":   rows,
		"stats":  diff.Stats(rows),
	})
}

// uploadAPI checks an uploaded file the way the editor's drop zone does and
// returns its text.
func (s *Server) uploadAPI(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": editor.MsgUnsupportedFile})
		return
	}
	if fh.Size > editor.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": editor.MsgUnsupportedFile})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": editor.MsgReadFailed})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, editor.MaxFileSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": editor.MsgReadFailed})
		return
	}

	if err := editor.ValidateFile(fh.Filename, fh.Header.Get("Content-Type"), data); err != nil {
		s.log.Debug().Err(err).Str("file", fh.Filename).Msg("Rejected upload")
		c.JSON(http.StatusBadRequest, gin.H{"error": editor.MsgUnsupportedFile})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": fh.Filename, "input": string(data)})
}

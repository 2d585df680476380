package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpfielding/dicomview.go/pkg/dicomview"
	"github.com/jpfielding/dicomview.go/pkg/dicomview/module"
	"github.com/jpfielding/dicomview.go/pkg/dicomview/tag"
	"github.com/jpfielding/dicomview.go/pkg/files"
	"github.com/jpfielding/dicomview.go/pkg/ingest"
)

type errorResponse struct {
	Error string `json:"error"`
}

type tagModulesResponse struct {
	Tag     tag.Tag  `json:"tagId"`
	Modules []string `json:"modules"`
}

type classifyRequest struct {
	Entries      []dicomview.Entry `json:"entries"`
	Search       string            `json:"search"`
	Hierarchical bool              `json:"hierarchical"`
	SOPClass     string            `json:"sopClass"`
}

// viewParams are shared by the compare endpoints; a missing onlyDiffs
// falls back to the configured default
type viewParams struct {
	Search       string `json:"search" form:"search"`
	OnlyDiffs    *bool  `json:"onlyDiffs" form:"onlyDiffs"`
	Hierarchical *bool  `json:"hierarchical" form:"hierarchical"`
	SOPClass     string `json:"sopClass" form:"sopClass"`
}

type compareRequest struct {
	viewParams
	Files [][]dicomview.Entry `json:"files"`
}

type compareLoadedRequest struct {
	viewParams
	IDs []string `json:"ids"`
}

type fileResponse struct {
	ID string `json:"id"`
	files.Descriptor
}

func toFileResponse(d files.Descriptor) fileResponse {
	return fileResponse{ID: d.ID(), Descriptor: d}
}

func (s *Server) options(p viewParams) dicomview.ViewOptions {
	opts := dicomview.ViewOptions{
		Search:       p.Search,
		OnlyDiffs:    s.viewer.OnlyDiffs,
		Hierarchical: s.viewer.Hierarchical,
		SOPClass:     p.SOPClass,
	}
	if p.OnlyDiffs != nil {
		opts.OnlyDiffs = *p.OnlyDiffs
	}
	if p.Hierarchical != nil {
		opts.Hierarchical = *p.Hierarchical
	}
	return opts
}

func fail(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "error", err)
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error()})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"tags":       s.engine.Table().Len(),
		"sopClasses": len(s.engine.Table().SOPClasses()),
		"files":      s.registry.Len(),
	})
}

func (s *Server) modulesOfTag(c *gin.Context) {
	t, err := tag.Parse(c.Param("tag"))
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, tagModulesResponse{Tag: t, Modules: s.engine.ModulesOf(t)})
}

func (s *Server) modulesOfSOPClass(c *gin.Context) {
	rec, err := s.engine.Table().SOPClass(c.Param("uid"))
	if errors.Is(err, module.ErrUnknownSOPClass) {
		fail(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) classify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, s.engine.FileView(req.Entries, dicomview.ViewOptions{
		Search:       req.Search,
		Hierarchical: req.Hierarchical,
		SOPClass:     req.SOPClass,
	}))
}

func (s *Server) compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, s.engine.ComparisonView(req.Files, s.options(req.viewParams)))
}

func (s *Server) upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	headers := form.File["file"]
	if len(headers) == 0 {
		fail(c, http.StatusBadRequest, errors.New("no file in form field \"file\""))
		return
	}
	out := make([]fileResponse, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			fail(c, http.StatusBadRequest, err)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			fail(c, http.StatusBadRequest, err)
			return
		}
		entries, err := ingest.ReadBytes(data, h.Filename, files.Black)
		if err != nil {
			fail(c, http.StatusUnprocessableEntity, err)
			return
		}
		d := s.registry.Add(h.Filename, h.Size, entries)
		slog.InfoContext(c.Request.Context(), "loaded file", "file", h.Filename, "size", h.Size, "entries", len(entries))
		out = append(out, toFileResponse(d))
	}
	c.JSON(http.StatusCreated, out)
}

func (s *Server) list(c *gin.Context) {
	ds := s.registry.List()
	out := make([]fileResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, toFileResponse(d))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) current(c *gin.Context) {
	f, ok := s.registry.Current()
	if !ok {
		fail(c, http.StatusNotFound, files.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, toFileResponse(f.Descriptor))
}

// fileError maps registry errors to a status
func fileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, files.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case errors.Is(err, files.ErrNotCompared):
		fail(c, http.StatusConflict, err)
	default:
		fail(c, http.StatusInternalServerError, err)
	}
}

func (s *Server) view(c *gin.Context) {
	f, err := s.registry.Get(c.Param("id"))
	if err != nil {
		fileError(c, err)
		return
	}
	var p viewParams
	if err := c.ShouldBindQuery(&p); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, s.engine.FileView(f.Entries, s.options(p)))
}

func (s *Server) setCurrent(c *gin.Context) {
	if err := s.registry.SetCurrent(c.Param("id")); err != nil {
		fileError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) selectFile(c *gin.Context) {
	d, err := s.registry.Select(c.Param("id"))
	if err != nil {
		fileError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFileResponse(d))
}

func (s *Server) deselectFile(c *gin.Context) {
	if err := s.registry.Deselect(c.Param("id")); err != nil {
		fileError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) remove(c *gin.Context) {
	if err := s.registry.Remove(c.Param("id")); err != nil {
		fileError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// compareLoaded compares the listed files, or the selected ones when no ids are given
func (s *Server) compareLoaded(c *gin.Context) {
	var req compareLoadedRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, err)
		return
	}

	var loaded []files.File
	if len(req.IDs) == 0 {
		loaded = s.registry.Compared()
	}
	for _, id := range req.IDs {
		f, err := s.registry.Get(id)
		if err != nil {
			fileError(c, err)
			return
		}
		loaded = append(loaded, f)
	}
	if len(loaded) < 2 {
		fail(c, http.StatusBadRequest, errors.New("at least two files are needed for a comparison"))
		return
	}

	sets := make([][]dicomview.Entry, len(loaded))
	ids := make([]string, len(loaded))
	for i, f := range loaded {
		sets[i] = f.Entries
		ids[i] = f.ID()
	}
	c.JSON(http.StatusOK, gin.H{
		"files": ids,
		"view":  s.engine.ComparisonView(sets, s.options(req.viewParams)),
	})
}

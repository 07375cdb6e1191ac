// Package dataserver exposes the crawl output directory over HTTP:
// a JSON listing API and plain file downloads, so results can be
// inspected remotely without shell access to the crawl host.
package dataserver

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileInfo is one directory entry in the listing API.
type FileInfo struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
	IsDir    bool   `json:"is_dir"`
}

// Server serves one data directory. Paths in requests are always
// resolved inside it; anything escaping the root is rejected.
type Server struct {
	dataDir string
	log     *zap.SugaredLogger
}

func NewServer(dataDir string, log *zap.SugaredLogger) *Server {
	return &Server{dataDir: dataDir, log: log}
}

// Router builds the gin engine. Gin is put in release mode so request
// logging stays with our logger.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(s.requestLogger())
	router.Use(gin.Recovery())

	router.GET("/health", s.health)
	router.GET("/api/files/*filepath", s.listFiles)
	router.GET("/files/*filepath", s.downloadFile)

	return router
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return err
	}
	s.log.Infow("data server listening", "addr", addr, "data_dir", s.dataDir)
	return s.Router().Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"data_dir": s.dataDir,
	})
}

func (s *Server) listFiles(c *gin.Context) {
	rel := strings.TrimPrefix(c.Param("filepath"), "/")

	target, ok := s.resolve(rel)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	info, err := os.Stat(target)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if !info.IsDir() {
		c.JSON(http.StatusOK, fileInfo(info, rel))
		return
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Directories first, then by name.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	listed := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		entryInfo, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}
		listed = append(listed, fileInfo(entryInfo, filepath.Join(rel, entry.Name())))
	}

	displayPath := rel
	if displayPath == "" {
		displayPath = "/"
	}
	c.JSON(http.StatusOK, gin.H{
		"path":    displayPath,
		"entries": listed,
	})
}

func (s *Server) downloadFile(c *gin.Context) {
	rel := strings.TrimPrefix(c.Param("filepath"), "/")

	target, ok := s.resolve(rel)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	info, err := os.Stat(target)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	c.File(target)
}

// resolve maps a request-relative path to an absolute path inside the
// data directory. Returns false when the path would escape it.
func (s *Server) resolve(rel string) (string, bool) {
	target := filepath.Join(s.dataDir, filepath.Clean("/"+rel))

	inside, err := filepath.Rel(s.dataDir, target)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", false
	}
	return target, true
}

func fileInfo(info os.FileInfo, rel string) FileInfo {
	return FileInfo{
		Name:     info.Name(),
		Path:     rel,
		Size:     info.Size(),
		Modified: info.ModTime().UTC().Format(time.RFC3339),
		IsDir:    info.IsDir(),
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		s.log.Infow("http request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"client_ip", c.ClientIP(),
			"duration", time.Since(start),
		)
	}
}

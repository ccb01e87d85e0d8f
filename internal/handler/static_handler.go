package handler

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/shop-api/internal/handler/dto"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
)

// StaticHandler раздает файлы сайта (login.html, assets/...) для путей без маршрута.
// Доступ к защищенным страницам уже проверен SessionGate.
type StaticHandler struct {
	root http.FileSystem
}

// NewStaticHandler: пустой dir отключает раздачу
func NewStaticHandler(dir string) *StaticHandler {
	if dir == "" {
		return &StaticHandler{}
	}
	return &StaticHandler{root: http.Dir(dir)}
}

// NoRoute обработчик для router.NoRoute
func (h *StaticHandler) NoRoute(c *gin.Context) {
	method := c.Request.Method
	if h.root == nil || (method != http.MethodGet && method != http.MethodHead) {
		notFound(c)
		return
	}

	name := path.Clean("/" + c.Request.URL.Path)
	if strings.HasSuffix(c.Request.URL.Path, "/") {
		name = path.Join(name, "index.html")
	}

	f, err := h.root.Open(name)
	if err != nil {
		notFound(c)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		notFound(c)
		return
	}

	if info.IsDir() {
		index, err := h.root.Open(path.Join(name, "index.html"))
		if err != nil {
			notFound(c)
			return
		}
		defer index.Close()
		if info, err = index.Stat(); err != nil || info.IsDir() {
			notFound(c)
			return
		}
		f = index
	}

	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.ErrorResponse{
		Error:     apperrors.PublicMessage(apperrors.ErrNotFound),
		ErrorType: apperrors.TypeNotFound,
	})
}

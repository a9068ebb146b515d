// Package site wires the two pages the server knows about.
package site

import (
	"time"

	"github.com/freekieb7/hello/filesystem"
	"github.com/freekieb7/hello/http"
)

const (
	HomeResource     = "hello.html"
	NotFoundResource = "404.html"

	DefaultSleepDelay = 5 * time.Second
)

// NewRouter serves the home page on "/" and, after delay, on "/sleep".
// Everything else gets the not-found page.
func NewRouter(fs filesystem.Filesystem, delay time.Duration) *http.Router {
	home := http.FileHandler(fs, http.StatusOK, HomeResource)

	router := http.NewRouter()
	router.GET("/", home)
	router.GET("/sleep", home, http.DelayMiddleware(delay))
	router.NotFound = http.FileHandler(fs, http.StatusNotFound, NotFoundResource)

	return router
}

// CheckResources reports the pages missing from fs.
func CheckResources(fs filesystem.Filesystem) error {
	return filesystem.MustExist(fs, HomeResource, NotFoundResource)
}

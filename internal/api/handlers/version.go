package handlers

import (
	"net/http"
	"regexp"
	"runtime"
	"strings"

	"github.com/gin-gonic/gin"
)

// Version is set via ldflags at build time, usually to `git describe --tags --dirty`
var Version = "dev"

// Mode is set by the router based on config
var Mode = "development"

var (
	describeRe = regexp.MustCompile(`^(.+)-(\d+)-g([0-9a-f]+)$`)
	commitRe   = regexp.MustCompile(`^[0-9a-f]{7,40}$`)
)

// parseGitDescribe turns `git describe` output into a version string and
// the commit it was built from, if any.
func parseGitDescribe(s string) (version, commit string) {
	dirty := false
	if trimmed, ok := strings.CutSuffix(s, "-dirty"); ok {
		s, dirty = trimmed, true
	}

	if m := describeRe.FindStringSubmatch(s); m != nil {
		return strings.TrimPrefix(m[1], "v") + ".dev+" + m[3], m[3]
	}
	if commitRe.MatchString(s) {
		return "dev+" + s, s
	}
	version = strings.TrimPrefix(s, "v")
	if dirty {
		version += ".dev"
	}
	return version, ""
}

// GetVersion godoc
// @Summary Get version information
// @Description Returns version information about the Feria Gamer server
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /version [get]
func GetVersion(c *gin.Context) {
	version, commit := parseGitDescribe(Version)
	c.JSON(http.StatusOK, gin.H{
		"version":    version,
		"commit":     commit,
		"mode":       Mode,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
	})
}

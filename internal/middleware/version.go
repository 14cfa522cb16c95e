package middleware

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"billmaker/internal/common"

	"github.com/labstack/echo/v4"
)

// APIVersion represents API version information
type APIVersion struct {
	Version string `json:"version"`
	Message string `json:"message,omitempty"`
}

// VersionMiddleware provides API versioning functionality
type VersionMiddleware struct {
	supportedVersions map[string]APIVersion
	defaultVersion    string
	buildVersion      string
}

// NewVersionMiddleware creates a new version middleware instance. buildVersion
// is the server release reported in X-Server-Version.
func NewVersionMiddleware(buildVersion string) *VersionMiddleware {
	return &VersionMiddleware{
		supportedVersions: map[string]APIVersion{
			"v1": {
				Version: "v1",
				Message: "Current stable API version",
			},
		},
		defaultVersion: "v1",
		buildVersion:   buildVersion,
	}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-API-Version", version)
			h.Set("X-Server-Version", vm.buildVersion)

			if ver, exists := vm.supportedVersions[version]; exists {
				h.Set("X-API-Message", ver.Message)
			}

			return next(c)
		}
	}
}

// VersionRoute creates a version-specific route group
func (vm *VersionMiddleware) VersionRoute(e *echo.Echo, version string) *echo.Group {
	group := e.Group("/" + version)
	group.Use(vm.VersionHeader(version))
	return group
}

// APIVersionResolver rejects requests for unknown /vN prefixes and records
// the resolved version on the context.
func (vm *VersionMiddleware) APIVersionResolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			version := extractVersionFromPath(c.Request().URL.Path)
			if version == "" {
				c.Set("api_version", vm.defaultVersion)
				return next(c)
			}

			if _, supported := vm.supportedVersions[version]; !supported {
				return c.JSON(http.StatusNotFound, common.CreateErrorResponse(
					"UNSUPPORTED_VERSION",
					"Unsupported API version",
					map[string]string{"supported_versions": strings.Join(vm.getSupportedVersions(), ", ")},
				))
			}
			c.Set("api_version", version)
			return next(c)
		}
	}
}

// extractVersionFromPath returns "vN" for paths like /v1/bills.
func extractVersionFromPath(path string) string {
	if len(path) < 3 || path[0] != '/' || path[1] != 'v' {
		return ""
	}
	end := 2
	for end < len(path) && path[end] >= '0' && path[end] <= '9' {
		end++
	}
	if end < len(path) && path[end] != '/' {
		return ""
	}
	n, err := strconv.Atoi(path[2:end])
	if err != nil || n <= 0 {
		return ""
	}
	return "v" + strconv.Itoa(n)
}

func (vm *VersionMiddleware) getSupportedVersions() []string {
	versions := make([]string, 0, len(vm.supportedVersions))
	for version := range vm.supportedVersions {
		versions = append(versions, version)
	}
	sort.Strings(versions)
	return versions
}

// GetCurrentVersion returns the current active API version
func (vm *VersionMiddleware) GetCurrentVersion() string {
	return vm.defaultVersion
}

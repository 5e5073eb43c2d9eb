package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/buyroll/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// CSRFHeader is the header carrying the CSRF token on mutating requests.
const CSRFHeader = "X-CSRF-Token"

// CSRFMiddleware enforces the double-submit check on mutating methods: the
// token issued at sign-in (a claim inside the session JWT) must be re-sent
// via the X-CSRF-Token header or a _csrf_token body field. Comparison is
// constant-time.
func CSRFMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			claims, ok := c.Get("user").(*models.JwtCustomClaims)
			if !ok || claims.CSRFToken == "" {
				return echo.NewHTTPError(http.StatusForbidden, "CSRF token missing")
			}

			supplied := c.Request().Header.Get(CSRFHeader)
			if supplied == "" {
				supplied = tokenFromBody(c)
			}
			if supplied == "" {
				return echo.NewHTTPError(http.StatusForbidden, "CSRF token missing")
			}

			if subtle.ConstantTimeCompare([]byte(supplied), []byte(claims.CSRFToken)) != 1 {
				return echo.NewHTTPError(http.StatusForbidden, "CSRF token mismatch")
			}

			return next(c)
		}
	}
}

// tokenFromBody pulls _csrf_token out of a form post or a JSON body. The
// JSON body is re-buffered so handlers can still bind it.
func tokenFromBody(c echo.Context) string {
	if v := c.FormValue("_csrf_token"); v != "" {
		return v
	}
	var body struct {
		CSRFToken string `json:"_csrf_token"`
	}
	if err := bindKeepingBody(c, &body); err != nil {
		return ""
	}
	return body.CSRFToken
}

func bindKeepingBody(c echo.Context, out interface{}) error {
	req := c.Request()
	if req.Body == nil {
		return nil
	}
	buf, err := readAndRestore(req)
	if err != nil {
		return err
	}
	if len(buf) == 0 {
		return nil
	}
	return json.Unmarshal(buf, out)
}

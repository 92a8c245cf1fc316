package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

type BaseHTTPSuite struct {
	suite.Suite
	Config Config
	Token  string
}

// SetupSuite loads the environment configuration before running tests. The
// whole suite is skipped unless a target service is configured.
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.APIAddr == "" {
		s.T().Skip("E2E_API_ADDR not set, skipping end-to-end suite")
	}
}

// DoJSON sends a JSON request with logging, colors, and JSON debugging, and
// decodes the response body into out when it is non-nil.
func (s *BaseHTTPSuite) DoJSON(t *testing.T, name, method, path string, body any, out any) *http.Response {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	var reqBody io.Reader
	var reqJSON []byte
	if body != nil {
		var err error
		reqJSON, err = json.MarshalIndent(body, "", "  ")
		s.Require().NoError(err)
		reqBody = bytes.NewReader(reqJSON)
	}

	req, err := http.NewRequest(method, s.Config.APIAddr+path, reqBody)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err, "Failed to reach service at "+s.Config.APIAddr)

	respJSON, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	_ = resp.Body.Close()

	logBuilder := strings.Builder{}
	fmt.Fprintf(&logBuilder, "HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))

	// Log full JSON request/response bodies if E2E_DEBUG_JSON is enabled
	if s.Config.DebugJSON {
		if reqJSON != nil {
			fmt.Fprintln(&logBuilder, "\nREQUEST:")
			fmt.Fprintln(&logBuilder, string(reqJSON))
		}
		fmt.Fprintln(&logBuilder, "RESPONSE:")
		fmt.Fprintln(&logBuilder, string(respJSON))
	}
	t.Log(logBuilder.String())

	if out != nil {
		s.Require().NoError(json.Unmarshal(respJSON, out))
	}
	return resp
}

// Authenticate obtains a bearer token for the protected endpoints.
func (s *BaseHTTPSuite) Authenticate(operator string) {
	var result struct {
		Token string `json:"token"`
	}
	resp := s.DoJSON(s.T(), "Authenticate operator", http.MethodPost, "/auth/token", map[string]string{
		"operator": operator,
		"password": s.Config.OperatorPassword,
	}, &result)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().NotEmpty(result.Token)
	s.Token = result.Token
}

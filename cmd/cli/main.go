package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/adapter/http/middleware"
)

// options are the persistent flags shared by every API command.
type options struct {
	baseURL   string
	timeout   time.Duration
	companyID string
	actorID   string
	actorRole string
	token     string
	output    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "gobooks-cli",
		Short:         "GoBooks CLI tool",
		Long:          `A command line interface for the GoBooks double-entry accounting API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.baseURL, "url", envOr("GOBOOKS_URL", "http://localhost:8080"), "Base URL of the GoBooks API")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	flags.StringVar(&opts.companyID, "company", os.Getenv("GOBOOKS_COMPANY"), "Company ID")
	flags.StringVar(&opts.actorID, "actor", os.Getenv("GOBOOKS_ACTOR"), "Actor ID sent when no token is given")
	flags.StringVar(&opts.actorRole, "role", envOr("GOBOOKS_ROLE", "accountant"), "Actor role sent when no token is given")
	flags.StringVar(&opts.token, "token", os.Getenv("GOBOOKS_TOKEN"), "Bearer token")
	flags.StringVarP(&opts.output, "output", "o", "table", "Output format: table or json")

	rootCmd.AddCommand(
		trialBalanceCmd(opts),
		checklistCmd(opts),
		closingCmd(opts),
		periodCmd(opts),
		migrateCmd(),
		tokenCmd(),
	)

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// apiError is returned for non-2xx responses.
type apiError struct {
	Status int
	Body   dto.ErrorResponse
}

func (e *apiError) Error() string {
	msg := fmt.Sprintf("request failed (status %d): %s", e.Status, e.Body.Error)
	if e.Body.Message != "" {
		msg += ": " + e.Body.Message
	}
	return msg
}

// do sends a request to the API and decodes a successful response into out.
func (o *options) do(method, path string, query url.Values, body, out any) error {
	u := o.baseURL + "/api/v1" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if o.companyID != "" {
		req.Header.Set(middleware.CompanyIDHeader, o.companyID)
	}
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	} else if o.actorID != "" {
		req.Header.Set(middleware.ActorIDHeader, o.actorID)
		req.Header.Set(middleware.ActorRoleHeader, o.actorRole)
	}

	client := &http.Client{Timeout: o.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode}
		if err := json.Unmarshal(data, &apiErr.Body); err != nil || apiErr.Body.Error == "" {
			apiErr.Body.Error = string(bytes.TrimSpace(data))
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (o *options) jsonOutput() bool {
	return o.output == "json"
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

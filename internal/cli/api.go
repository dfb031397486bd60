package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/rileyhilliard/jirash/internal/errors"
	"github.com/rileyhilliard/jirash/internal/jira"
	"github.com/spf13/cobra"
)

// apiOptions holds flags for `api`.
type apiOptions struct {
	method  string
	headers []string
	include bool
	data    string
}

var apiOpts apiOptions

var apiCmd = &cobra.Command{
	Use:   "api [flags] ENDPOINT",
	Short: "Make a raw JIRA REST API request",
	Long: `Make a raw JIRA REST API request.

ENDPOINT is relative to /rest/api/2. The method defaults to PUT when -d is
given and GET otherwise. JSON responses are pretty-printed.

Examples:
  jirash api /myself
  jirash api -i /serverInfo
  jirash api -X POST -d '{"body": "hi"}' /issue/FOO-1/comment
  jirash api -X HEAD /issue/FOO-1`,
	GroupID: "other",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAPI(cmd, apiOpts, args)
	},
}

func runAPI(cmd *cobra.Command, opts apiOptions, args []string) error {
	if len(args) < 1 {
		return errors.NewUsage("invalid arguments")
	}

	method := strings.ToUpper(opts.method)
	if method == "" {
		method = http.MethodGet
		if opts.data != "" {
			method = http.MethodPut
		}
	}

	header, err := parseHeaders(opts.headers)
	if err != nil {
		return err
	}

	path := args[0]
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req := jira.Request{Method: method, Path: path, Header: header}
	if opts.data != "" {
		var v interface{}
		if err := json.Unmarshal([]byte(opts.data), &v); err != nil {
			return errors.NewUsage("given DATA is not valid JSON: %v", err)
		}
		req.Body = strings.NewReader(opts.data)
	}

	a := appFrom(cmd.Context())
	client, err := a.jira()
	if err != nil {
		return err
	}
	resp, err := client.Do(cmd.Context(), req)
	if err != nil {
		return wrapAPI(err, fmt.Sprintf("%s %s failed", method, args[0]))
	}

	if opts.include || method == http.MethodHead {
		writeResponseHead(a.errOut, resp)
	}
	if method == http.MethodHead {
		return nil
	}
	return writeResponseBody(a.out, resp.Body)
}

// parseHeaders turns "Name: value" strings into a header set.
func parseHeaders(raw []string) (http.Header, error) {
	h := http.Header{}
	for _, line := range raw {
		idx := strings.Index(line, ":")
		if idx < 0 {
			return nil, errors.NewUsage("failed to parse header: %s", line)
		}
		h.Add(line[:idx], strings.TrimLeft(line[idx+1:], " \t"))
	}
	return h, nil
}

// writeResponseHead prints the status line and headers, then a blank line.
func writeResponseHead(w io.Writer, resp *jira.Response) {
	fmt.Fprintf(w, "%s %s\n", resp.Proto, resp.Status)
	keys := make([]string, 0, len(resp.Header))
	for k := range resp.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range resp.Header[k] {
			fmt.Fprintf(w, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintln(w)
}

// writeResponseBody pretty-prints a JSON body and writes anything else as is.
func writeResponseBody(w io.Writer, body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if out, ok := indentJSONBody(body); ok {
		_, err := w.Write(out)
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}
	if !bytes.HasSuffix(body, []byte("\n")) {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().StringVarP(&apiOpts.method, "method", "X", "", "request method (default GET, or PUT with -d)")
	apiCmd.Flags().StringArrayVarP(&apiOpts.headers, "header", "H", nil, `request header, "Name: value" (repeatable)`)
	apiCmd.Flags().BoolVarP(&apiOpts.include, "include", "i", false, "print the response status line and headers to stderr")
	apiCmd.Flags().StringVarP(&apiOpts.data, "data", "d", "", "JSON request body")
}

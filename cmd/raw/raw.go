package raw

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gatehouse/gatectl/internal/api"
	"github.com/gatehouse/gatectl/internal/portal"
)

// RawCmd represents the raw command
var RawCmd = &cobra.Command{
	Use:   "raw <method> <path>",
	Short: "Call a portal API endpoint directly",
	Long: `Call a portal API endpoint directly with the current session.

The body is sent as JSON with --data, as a form with --form, or as
multipart/form-data when --file is given. Paths are relative to the
configured server URL.`,
	Example: `  gatectl raw GET /users/me
  gatectl raw POST /mfa/verify-setup --data '{"token":"123456"}'
  gatectl raw POST /users/me/avatar --file file=./me.png`,
	Args: cobra.ExactArgs(2),
	RunE: runRaw,
}

func runRaw(cmd *cobra.Command, args []string) error {
	p, err := portal.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	method := strings.ToUpper(args[0])
	path := args[1]
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	body, err := requestBody(cmd)
	if err != nil {
		return err
	}

	var opts []api.RequestOption
	if noAuth, _ := cmd.Flags().GetBool("no-auth"); noAuth {
		opts = append(opts, api.WithoutAuth())
	}
	headers, err := requestHeaders(cmd)
	if err != nil {
		return err
	}
	if len(headers) > 0 {
		opts = append(opts, api.WithHeaders(headers))
	}

	resp, err := p.API.Do(cmd.Context(), method, path, body, opts...)
	if err != nil {
		return err
	}
	p.Printer.Debugf("%s %s returned %d", method, path, resp.StatusCode)

	if len(resp.Data) == 0 {
		p.Printer.Success("✓ %d", resp.StatusCode)
		return nil
	}
	var data interface{}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), string(resp.Data))
		return nil
	}
	return p.Printer.Print(data)
}

// requestHeaders collects --header values. A repeated name sends every value.
func requestHeaders(cmd *cobra.Command) (http.Header, error) {
	raw, _ := cmd.Flags().GetStringArray("header")
	headers := http.Header{}
	for _, h := range raw {
		key, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid header %q, expected Name: value", h)
		}
		headers.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return headers, nil
}

// requestBody builds the body from --data, --form and --file
func requestBody(cmd *cobra.Command) (interface{}, error) {
	data, _ := cmd.Flags().GetString("data")
	form, _ := cmd.Flags().GetStringArray("form")
	files, _ := cmd.Flags().GetStringArray("file")

	if data != "" && (len(form) > 0 || len(files) > 0) {
		return nil, fmt.Errorf("--data cannot be combined with --form or --file")
	}

	if data != "" {
		if !json.Valid([]byte(data)) {
			return nil, fmt.Errorf("--data is not valid JSON")
		}
		return json.RawMessage(data), nil
	}

	fields := map[string]string{}
	for _, f := range form {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("invalid form field %q, expected key=value", f)
		}
		fields[key] = value
	}

	if len(files) == 0 {
		if len(fields) == 0 {
			return nil, nil
		}
		values := url.Values{}
		for k, v := range fields {
			values.Set(k, v)
		}
		return values, nil
	}

	body := &api.Multipart{Fields: fields}
	for _, f := range files {
		field, name, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("invalid file %q, expected field=path", f)
		}
		content, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		body.Files = append(body.Files, api.MultipartFile{
			Field:    field,
			Filename: filepath.Base(name),
			Content:  bytes.NewReader(content),
		})
	}
	return body, nil
}

func init() {
	RawCmd.Flags().StringP("data", "d", "", "JSON request body")
	RawCmd.Flags().StringArrayP("form", "f", nil, "form field key=value (repeatable)")
	RawCmd.Flags().StringArray("file", nil, "file part field=path, sends multipart/form-data (repeatable)")
	RawCmd.Flags().StringArrayP("header", "H", nil, "extra header 'Name: value' (repeatable)")
	RawCmd.Flags().Bool("no-auth", false, "send without the session token")
}

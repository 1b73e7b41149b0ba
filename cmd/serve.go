package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/discovery"
	"github.com/wardenhq/warden/findings"
	"github.com/wardenhq/warden/model"
	"github.com/wardenhq/warden/pipeline"
)

// serveCmd exposes warden scan as a single RPC method over stdio (newline
// delimited JSON requests/responses) or HTTP, for AI assistants and other
// tools that want to drive a scan without shelling out to the CLI. It does
// not implement the Model Context Protocol itself — only the one operation
// (scan) those integrations actually need.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose `warden scan` as a single RPC method over stdio or HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Bool("http", false, "use HTTP transport instead of stdio")
	serveCmd.Flags().String("address", ":8787", "HTTP server address (only with --http)")
	rootCmd.AddCommand(serveCmd)
}

type serveScanRequest struct {
	ID      string `json:"id,omitempty"`
	Path    string `json:"path"`
	Frames  string `json:"frames,omitempty"`
	DiffRef string `json:"base_ref,omitempty"`
}

type serveScanResponse struct {
	ID     string               `json:"id,omitempty"`
	Status model.PipelineStatus `json:"status"`
	Total  int                  `json:"total_findings"`
	Result *model.PipelineResult `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

func runServe(cmd *cobra.Command, _ []string) error {
	useHTTP, _ := cmd.Flags().GetBool("http")
	address, _ := cmd.Flags().GetString("address")

	if useHTTP {
		http.HandleFunc("/scan", func(w http.ResponseWriter, r *http.Request) {
			var req serveScanRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			resp := handleServeScan(req)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		})
		fmt.Fprintf(os.Stderr, "warden serve: listening on %s (POST /scan)\n", address)
		return http.ListenAndServe(address, nil)
	}

	fmt.Fprintln(os.Stderr, "warden serve: reading newline-delimited scan requests from stdin")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	enc := json.NewEncoder(os.Stdout)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req serveScanRequest
		if err := json.Unmarshal(line, &req); err != nil {
			_ = enc.Encode(serveScanResponse{Error: err.Error()})
			continue
		}
		_ = enc.Encode(handleServeScan(req))
	}
	return scanner.Err()
}

func handleServeScan(req serveScanRequest) serveScanResponse {
	path := req.Path
	if path == "" {
		path = "."
	}

	projectRoot, cfg, reg, err := loadProjectAndRegistry(path)
	if err != nil {
		return serveScanResponse{ID: req.ID, Error: err.Error()}
	}

	discoveryResult, err := discovery.Discover(projectRoot, discovery.DefaultOptions())
	if err != nil {
		return serveScanResponse{ID: req.ID, Error: err.Error()}
	}

	enabled, disabled := enabledDisabledSets(cfg, req.Frames)
	frames := reg.Ordered(enabled, disabled)
	resolved := pipeline.Resolve(frames, cfg)
	batch := toDiscoveredBatch(discoveryResult.Files)
	pctx := pipelineContext(projectRoot, cfg)

	ctx := context.Background()
	if err := prepareFrames(ctx, resolved, pctx); err != nil {
		return serveScanResponse{ID: req.ID, Error: err.Error()}
	}

	knownRules := make(map[string]model.Rule, len(cfg.Rules.Rules))
	for _, r := range cfg.Rules.Rules {
		knownRules[r.ID] = r
	}

	orch := pipeline.NewOrchestrator(pipeline.DefaultOptions(), pipeline.RegexRuleEngine{}, knownRules, nil)
	result, err := orch.Run(ctx, "serve-scan", resolved, batch, pctx)
	if err != nil {
		return serveScanResponse{ID: req.ID, Error: err.Error()}
	}

	findings.Process(result, projectRoot, cfg.Rules.Suppressions)

	return serveScanResponse{ID: req.ID, Status: result.Status, Total: result.TotalFindings, Result: result}
}

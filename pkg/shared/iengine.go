package shared

import (
	"net/rpc"

	"github.com/hashicorp/go-plugin"

	"github.com/review-io-git/review-io/pkg/shared/config"
)

// EngineRunRequest asks an analysis engine plugin to analyze a working tree
// and produce a machine-readable report.
type EngineRunRequest struct {
	TargetPath     string   `json:"target_path"`               // Working tree to analyze
	ResultsPath    string   `json:"results_path"`              // File the produced report is copied to
	ConfigPath     string   `json:"config_path,omitempty"`     // Base configuration handed to the engine
	Inclusions     []string `json:"inclusions,omitempty"`      // Repository-relative files to restrict the analysis to
	AdditionalArgs []string `json:"additional_args,omitempty"` // Raw arguments appended to the engine invocation
}

// EngineRunResponse reports where the engine wrote its findings.
type EngineRunResponse struct {
	ReportPath string `json:"report_path"`
}

// EngineSetupResponse reports whether plugin configuration was accepted.
type EngineSetupResponse struct {
	Done bool
}

// Engine is the interface every analysis engine plugin implements.
type Engine interface {
	Setup(configData config.Config) (bool, error)
	Run(req EngineRunRequest) (EngineRunResponse, error)
}

type EngineRPCClient struct{ client *rpc.Client }

func (g *EngineRPCClient) Setup(configData config.Config) (bool, error) {
	var resp EngineSetupResponse
	if err := g.client.Call("Plugin.Setup", configData, &resp); err != nil {
		return false, err
	}
	return resp.Done, nil
}

func (g *EngineRPCClient) Run(req EngineRunRequest) (EngineRunResponse, error) {
	var resp EngineRunResponse
	if err := g.client.Call("Plugin.Run", req, &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

type EngineRPCServer struct {
	Impl Engine
}

func (s *EngineRPCServer) Setup(configData config.Config, resp *EngineSetupResponse) error {
	done, err := s.Impl.Setup(configData)
	resp.Done = done
	return err
}

func (s *EngineRPCServer) Run(args EngineRunRequest, resp *EngineRunResponse) error {
	result, err := s.Impl.Run(args)
	*resp = result
	return err
}

// EnginePlugin is the go-plugin wrapper serving an Engine implementation over net/rpc.
type EnginePlugin struct {
	Impl Engine
}

func (p *EnginePlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &EngineRPCServer{Impl: p.Impl}, nil
}

func (EnginePlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &EngineRPCClient{client: c}, nil
}

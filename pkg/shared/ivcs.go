package shared

import (
	"net/rpc"

	"github.com/hashicorp/go-plugin"

	"github.com/review-io-git/review-io/pkg/shared/config"
)

// VCSRequestBase carries the fields common to all VCS plugin requests.
type VCSRequestBase struct {
	RepoParam RepositoryParams `json:"repo_param"`
	Action    string           `json:"action"`
}

// VCSFetchRequest asks a VCS plugin to materialize a repository on disk.
type VCSFetchRequest struct {
	CloneURL     string           `json:"clone_url"`
	Branch       string           `json:"branch,omitempty"`
	AuthType     string           `json:"auth_type"`
	SSHKey       string           `json:"ssh_key,omitempty"`
	TargetFolder string           `json:"target_folder"`
	RepoParam    RepositoryParams `json:"repo_param"`
}

// VCSFetchResponse reports where the repository was placed and what was checked out.
type VCSFetchResponse struct {
	Path       string `json:"path"`
	Branch     string `json:"branch,omitempty"`
	CommitHash string `json:"commit_hash,omitempty"`
}

// VCSRetrievePRInformationRequest asks for pull request metadata.
type VCSRetrievePRInformationRequest struct {
	VCSRequestBase
}

// VCSListPRCommentsRequest asks for the comments already present on a pull request.
type VCSListPRCommentsRequest struct {
	VCSRequestBase
}

// VCSAddCommentToPRRequest posts a single general comment on a pull request.
type VCSAddCommentToPRRequest struct {
	VCSRequestBase
	Comment   Comment  `json:"comment"`
	FilePaths []string `json:"file_paths,omitempty"`
}

// VCSAddReviewCommentsRequest posts a batch of inline review comments,
// optionally followed by a summary comment.
type VCSAddReviewCommentsRequest struct {
	VCSRequestBase
	Comments []Comment `json:"comments"`
	Summary  string    `json:"summary,omitempty"`
}

// VCSRetrievePRInformationResponse wraps PR metadata for the RPC layer.
type VCSRetrievePRInformationResponse struct {
	PR PRParams
}

// VCSListPRCommentsResponse wraps existing comments for the RPC layer.
type VCSListPRCommentsResponse struct {
	Comments []Comment
}

// VCSAddCommentToPRResponse reports whether the comment was created.
type VCSAddCommentToPRResponse struct {
	Done bool
}

// VCSAddReviewCommentsResponse wraps the posting report for the RPC layer.
type VCSAddReviewCommentsResponse struct {
	Report ReviewReport
}

// VCSSetupResponse reports whether plugin configuration was accepted.
type VCSSetupResponse struct {
	Done bool
}

// VCS is the interface every VCS plugin implements.
type VCS interface {
	Setup(configData config.Config) (bool, error)
	Fetch(req VCSFetchRequest) (VCSFetchResponse, error)
	RetrievePRInformation(req VCSRetrievePRInformationRequest) (PRParams, error)
	ListPRComments(req VCSListPRCommentsRequest) ([]Comment, error)
	AddCommentToPR(req VCSAddCommentToPRRequest) (bool, error)
	AddReviewCommentsToPR(req VCSAddReviewCommentsRequest) (ReviewReport, error)
}

type VCSRPCClient struct{ client *rpc.Client }

func (g *VCSRPCClient) Setup(configData config.Config) (bool, error) {
	var resp VCSSetupResponse
	if err := g.client.Call("Plugin.Setup", configData, &resp); err != nil {
		return false, err
	}
	return resp.Done, nil
}

func (g *VCSRPCClient) Fetch(req VCSFetchRequest) (VCSFetchResponse, error) {
	var resp VCSFetchResponse
	if err := g.client.Call("Plugin.Fetch", req, &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

func (g *VCSRPCClient) RetrievePRInformation(req VCSRetrievePRInformationRequest) (PRParams, error) {
	var resp VCSRetrievePRInformationResponse
	if err := g.client.Call("Plugin.RetrievePRInformation", req, &resp); err != nil {
		return resp.PR, err
	}
	return resp.PR, nil
}

func (g *VCSRPCClient) ListPRComments(req VCSListPRCommentsRequest) ([]Comment, error) {
	var resp VCSListPRCommentsResponse
	if err := g.client.Call("Plugin.ListPRComments", req, &resp); err != nil {
		return resp.Comments, err
	}
	return resp.Comments, nil
}

func (g *VCSRPCClient) AddCommentToPR(req VCSAddCommentToPRRequest) (bool, error) {
	var resp VCSAddCommentToPRResponse
	if err := g.client.Call("Plugin.AddCommentToPR", req, &resp); err != nil {
		return resp.Done, err
	}
	return resp.Done, nil
}

func (g *VCSRPCClient) AddReviewCommentsToPR(req VCSAddReviewCommentsRequest) (ReviewReport, error) {
	var resp VCSAddReviewCommentsResponse
	if err := g.client.Call("Plugin.AddReviewCommentsToPR", req, &resp); err != nil {
		return resp.Report, err
	}
	return resp.Report, nil
}

type VCSRPCServer struct {
	Impl VCS
}

func (s *VCSRPCServer) Setup(configData config.Config, resp *VCSSetupResponse) error {
	done, err := s.Impl.Setup(configData)
	resp.Done = done
	return err
}

func (s *VCSRPCServer) Fetch(args VCSFetchRequest, resp *VCSFetchResponse) error {
	result, err := s.Impl.Fetch(args)
	*resp = result
	return err
}

func (s *VCSRPCServer) RetrievePRInformation(args VCSRetrievePRInformationRequest, resp *VCSRetrievePRInformationResponse) error {
	pr, err := s.Impl.RetrievePRInformation(args)
	resp.PR = pr
	return err
}

func (s *VCSRPCServer) ListPRComments(args VCSListPRCommentsRequest, resp *VCSListPRCommentsResponse) error {
	comments, err := s.Impl.ListPRComments(args)
	resp.Comments = comments
	return err
}

func (s *VCSRPCServer) AddCommentToPR(args VCSAddCommentToPRRequest, resp *VCSAddCommentToPRResponse) error {
	done, err := s.Impl.AddCommentToPR(args)
	resp.Done = done
	return err
}

func (s *VCSRPCServer) AddReviewCommentsToPR(args VCSAddReviewCommentsRequest, resp *VCSAddReviewCommentsResponse) error {
	report, err := s.Impl.AddReviewCommentsToPR(args)
	resp.Report = report
	return err
}

// VCSPlugin is the go-plugin wrapper serving a VCS implementation over net/rpc.
type VCSPlugin struct {
	Impl VCS
}

func (p *VCSPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &VCSRPCServer{Impl: p.Impl}, nil
}

func (VCSPlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &VCSRPCClient{client: c}, nil
}

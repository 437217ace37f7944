// Package mcpadapter exposes the triage components as MCP tools.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/core/ports"
)

const serverName = "homecare"

type Server struct {
	assess  ports.AssessmentService
	catalog ports.CatalogService
	mcp     *server.MCPServer
}

func NewServer(assess ports.AssessmentService, catalog ports.CatalogService, version string) *Server {
	s := &Server{
		assess:  assess,
		catalog: catalog,
		mcp:     server.NewMCPServer(serverName, version, server.WithToolCapabilities(false)),
	}

	s.mcp.AddTool(mcp.NewTool("triage_assess",
		mcp.WithDescription("Đánh giá mức độ ưu tiên từ mô tả triệu chứng (không lưu lại)."),
		mcp.WithString("symptoms", mcp.Required(), mcp.Description("Mô tả triệu chứng, các triệu chứng cách nhau bởi dấu phẩy")),
		mcp.WithNumber("age", mcp.Description("Tuổi của người bệnh")),
		mcp.WithNumber("days_sick", mcp.Description("Số ngày đã bị bệnh")),
	), s.triageAssess)

	s.mcp.AddTool(mcp.NewTool("quick_diagnosis",
		mcp.WithDescription("Dự đoán bệnh từ danh sách triệu chứng. Mặc định 30 tuổi, 3 ngày."),
		mcp.WithString("symptoms", mcp.Required(), mcp.Description("Các triệu chứng cách nhau bởi dấu phẩy")),
		mcp.WithNumber("age", mcp.Description("Tuổi của người bệnh")),
		mcp.WithNumber("days_sick", mcp.Description("Số ngày đã bị bệnh")),
	), s.quickDiagnosis)

	s.mcp.AddTool(mcp.NewTool("symptom_info",
		mcp.WithDescription("Tra cứu tên tiếng Việt và mức độ nghiêm trọng của một triệu chứng."),
		mcp.WithString("symptom", mcp.Required(), mcp.Description("Tên triệu chứng, ví dụ: fever")),
	), s.symptomInfo)

	s.mcp.AddTool(mcp.NewTool("health_topics",
		mcp.WithDescription("Liệt kê các chủ đề hướng dẫn sức khỏe."),
	), s.healthTopics)

	return s
}

func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves the tools over stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) triageAssess(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symptoms, err := req.RequireString("symptoms")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := s.assess.Assess(ctx, nil, domain.AssessmentRequest{
		Symptoms: symptoms,
		Age:      req.GetInt("age", 0),
		DaysSick: req.GetInt("days_sick", 0),
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(result)
}

func (s *Server) quickDiagnosis(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symptoms, err := req.RequireString("symptoms")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in := domain.QuickDiagnosisRequest{Symptoms: []string{symptoms}}
	if age, ok := intArgument(req, "age"); ok {
		in.Age = &age
	}
	if days, ok := intArgument(req, "days_sick"); ok {
		in.DaysSick = &days
	}
	result, err := s.assess.QuickDiagnosis(ctx, in)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(result)
}

func (s *Server) symptomInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("symptom")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	info, err := s.catalog.SymptomInfo(ctx, name)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(info)
}

func (s *Server) healthTopics(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.catalog.Topics(ctx))
}

func intArgument(req mcp.CallToolRequest, key string) (int, bool) {
	if _, ok := req.GetArguments()[key]; !ok {
		return 0, false
	}
	return req.GetInt(key, 0), true
}

func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(domain.UserMessage(err))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}

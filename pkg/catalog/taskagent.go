package catalog

import "github.com/matzehuels/archdiagram/pkg/diagram"

// Icon tags attached to TaskAgent nodes. They are emitted as the DOT class
// attribute so SVG output can be post-styled.
const (
	iconUser       = "user"
	iconNextJS     = "nextjs"
	iconTypeScript = "typescript"
	iconDotNet     = "dotnet"
	iconCSharp     = "csharp"
	iconSQLServer  = "azure-sql"
	iconPostgres   = "azure-postgresql"
	iconOpenAI     = "azure-openai"
	iconCognitive  = "azure-cognitive"
	iconInsights   = "azure-appinsights"
	iconMonitor    = "azure-monitor"
	iconRack       = "rack"
)

// Edge colors shared by several TaskAgent diagrams.
const (
	colorPresentation = "#1976d2"
	colorInfra        = "#388e3c"
	colorApplication  = "#f57c00"
	colorAllowed      = "#4caf50"
	colorBlocked      = "#f44336"
)

// TaskAgent returns the architecture documentation set of the TaskAgent
// AI-powered task manager: a system overview plus five focused views.
func TaskAgent() *Catalog {
	c := New()
	for _, e := range []Entry{
		{Name: "architecture-main", Title: "TaskAgent - AI-Powered Task Management", Description: "System overview", Build: buildMain},
		{Name: "architecture-clean", Title: "TaskAgent - Clean Architecture", Description: "Clean Architecture layers", Build: buildClean},
		{Name: "architecture-sse-flow", Title: "TaskAgent - SSE Event Flow", Description: "SSE event streaming", Build: buildSSEFlow},
		{Name: "architecture-dual-database", Title: "TaskAgent - Dual Database", Description: "SQL Server + PostgreSQL", Build: buildDualDatabase},
		{Name: "architecture-observability", Title: "TaskAgent - Observability", Description: "OpenTelemetry + Aspire", Build: buildObservability},
		{Name: "architecture-content-safety", Title: "TaskAgent - Content Safety", Description: "Azure OpenAI filtering", Build: buildContentSafety},
	} {
		if err := c.Add(e); err != nil {
			panic(err)
		}
	}
	return c
}

func dashed(color string) diagram.Attrs {
	a := diagram.Attrs{"style": "dashed"}
	if color != "" {
		a["color"] = color
	}
	return a
}

func colored(color string) diagram.Attrs {
	return diagram.Attrs{"color": color}
}

func buildMain(style diagram.Style) (*diagram.Diagram, error) {
	d, err := diagram.New("TaskAgent - AI-Powered Task Management", style,
		diagram.WithName("architecture-main"),
		diagram.WithDirection(diagram.TopToBottom))
	if err != nil {
		return nil, err
	}
	b := diagram.NewBuilder(d)

	user := b.Node("User", nil, diagram.WithIcon(iconUser))

	var nextjs, chatUI, sseClient *diagram.Node
	b.Cluster("Frontend (Next.js 16)", nil, func() {
		nextjs = b.Node("App Router", nil, diagram.WithIcon(iconNextJS))
		chatUI = b.Node("Chat UI", nil, diagram.WithIcon(iconTypeScript))
		sseClient = b.Node("SSE Client", nil, diagram.WithIcon(iconTypeScript))
	}, diagram.WithRole(diagram.RoleFrontend))

	var webapi, agent, functions *diagram.Node
	b.Cluster("Backend (.NET 10)", nil, func() {
		webapi = b.Node("Web API", nil, diagram.WithIcon(iconDotNet))
		agent = b.Node("Agent Framework", nil, diagram.WithIcon(iconDotNet))
		functions = b.Node("Function Tools", nil, diagram.WithIcon(iconCSharp))
	}, diagram.WithRole(diagram.RoleBackend))

	var sqlserver, postgres *diagram.Node
	b.Cluster("Databases", nil, func() {
		sqlserver = b.Node("SQL Server", nil, diagram.WithIcon(iconSQLServer))
		postgres = b.Node("PostgreSQL", nil, diagram.WithIcon(iconPostgres))
	}, diagram.WithRole(diagram.RoleDatabase))

	var openai, insights *diagram.Node
	b.Cluster("Azure Services", nil, func() {
		openai = b.Node("GPT-4o-mini", nil, diagram.WithIcon(iconOpenAI))
		insights = b.Node("App Insights", nil, diagram.WithIcon(iconInsights))
	}, diagram.WithRole(diagram.RoleCloud))

	b.Edge(user, nextjs, nil)
	b.Chain(nil, nextjs, chatUI, sseClient)
	b.Edge(sseClient, webapi, diagram.Attrs{"label": "SSE Stream", "fontsize": "11"})
	b.Chain(nil, webapi, agent, functions)
	b.Edge(functions, sqlserver, nil)
	b.Edge(agent, postgres, nil)
	b.Edge(agent, openai, nil)
	b.Edge(webapi, insights, nil)

	return b.Diagram()
}

func buildClean(style diagram.Style) (*diagram.Diagram, error) {
	d, err := diagram.New("TaskAgent - Clean Architecture", style,
		diagram.WithName("architecture-clean"),
		diagram.WithDirection(diagram.TopToBottom),
		diagram.WithGraphAttrs(diagram.Attrs{"ranksep": "0.8"}))
	if err != nil {
		return nil, err
	}
	b := diagram.NewBuilder(d)

	var controllers, streaming *diagram.Node
	b.Cluster("Presentation (WebApi)", nil, func() {
		controllers = b.Node("Controllers", nil, diagram.WithIcon(iconDotNet))
		streaming = b.Node("SSE Service", nil, diagram.WithIcon(iconDotNet))
		b.Node("Middleware", nil, diagram.WithIcon(iconDotNet))
	}, diagram.WithRole(diagram.RolePresentation))

	var dbcontext, repositories, services *diagram.Node
	b.Cluster("Infrastructure", nil, func() {
		dbcontext = b.Node("DbContexts", nil, diagram.WithIcon(iconCSharp))
		repositories = b.Node("Repositories", nil, diagram.WithIcon(iconCSharp))
		services = b.Node("Services", nil, diagram.WithIcon(iconCSharp))
	}, diagram.WithRole(diagram.RoleInfrastructure))

	var dtos, interfaces, functions *diagram.Node
	b.Cluster("Application", nil, func() {
		dtos = b.Node("DTOs", nil, diagram.WithIcon(iconCSharp))
		interfaces = b.Node("Interfaces", nil, diagram.WithIcon(iconCSharp))
		functions = b.Node("Functions (6)", nil, diagram.WithIcon(iconCSharp))
		b.Node("Telemetry", nil, diagram.WithIcon(iconCSharp))
	}, diagram.WithRole(diagram.RoleApplication))

	var entities *diagram.Node
	b.Cluster("Domain", nil, func() {
		entities = b.Node("Entities", nil, diagram.WithIcon(iconCSharp))
		b.Node("Enums", nil, diagram.WithIcon(iconCSharp))
		b.Node("Business Rules", nil, diagram.WithIcon(iconCSharp))
	}, diagram.WithRole(diagram.RoleDomain))

	// Dependencies point inward only.
	b.Edge(controllers, services, dashed(colorPresentation))
	b.Edge(streaming, services, dashed(colorPresentation))

	b.Edge(dbcontext, interfaces, dashed(colorInfra))
	b.Edge(repositories, interfaces, dashed(colorInfra))
	b.Edge(services, functions, dashed(colorInfra))

	b.Edge(dtos, entities, dashed(colorApplication))
	b.Edge(interfaces, entities, dashed(colorApplication))
	b.Edge(functions, entities, dashed(colorApplication))

	return b.Diagram()
}

func buildSSEFlow(style diagram.Style) (*diagram.Diagram, error) {
	d, err := diagram.New("TaskAgent - SSE Event Flow", style,
		diagram.WithName("architecture-sse-flow"),
		diagram.WithDirection(diagram.LeftToRight),
		diagram.WithGraphAttrs(diagram.Attrs{"nodesep": "0.5", "ranksep": "0.6", "splines": diagram.SplinesPolyline}))
	if err != nil {
		return nil, err
	}
	b := diagram.NewBuilder(d)

	var chatInput, useChat, messages *diagram.Node
	b.Cluster("Frontend", nil, func() {
		chatInput = b.Node("ChatInput", nil, diagram.WithIcon(iconNextJS))
		useChat = b.Node("useChat", nil, diagram.WithIcon(iconTypeScript))
		messages = b.Node("Messages", nil, diagram.WithIcon(iconNextJS))
	}, diagram.WithRole(diagram.RoleFrontend))

	var controller, streaming, agent *diagram.Node
	b.Cluster("Backend", nil, func() {
		controller = b.Node("Controller", nil, diagram.WithIcon(iconDotNet))
		streaming = b.Node("Streaming", nil, diagram.WithIcon(iconDotNet))
		agent = b.Node("Agent", nil, diagram.WithIcon(iconCSharp))
	}, diagram.WithRole(diagram.RoleBackend))

	var events *diagram.Node
	b.Cluster("SSE", nil, func() {
		events = b.Node("Events", nil, diagram.WithIcon(iconRack))
	}, diagram.WithRole(diagram.RoleCloud))

	b.Edge(chatInput, useChat, nil)
	b.Edge(useChat, controller, nil)
	b.Chain(nil, controller, streaming, agent)
	b.Edge(agent, events, dashed(""))
	b.Edge(events, messages, colored(colorPresentation))

	return b.Diagram()
}

func buildDualDatabase(style diagram.Style) (*diagram.Diagram, error) {
	d, err := diagram.New("TaskAgent - Dual Database", style,
		diagram.WithName("architecture-dual-database"),
		diagram.WithDirection(diagram.TopToBottom),
		diagram.WithGraphAttrs(diagram.Attrs{"ranksep": "0.7"}))
	if err != nil {
		return nil, err
	}
	b := diagram.NewBuilder(d)

	agent := b.Node("Agent Framework", nil, diagram.WithIcon(iconDotNet))

	// Both stores declare a node labelled DbContext; they stay distinct.
	var taskRepo, taskContext, taskTable *diagram.Node
	b.Cluster("SQL Server (Tasks)", diagram.Attrs{"bgcolor": "#e3f2fd"}, func() {
		taskRepo = b.Node("Repository", nil, diagram.WithIcon(iconCSharp))
		taskContext = b.Node("DbContext", nil, diagram.WithIcon(iconCSharp))
		taskTable = b.Node("Tasks", nil, diagram.WithIcon(iconSQLServer))
	}, diagram.WithRole(diagram.RoleDatabase))

	var persistence, convContext, threads *diagram.Node
	b.Cluster("PostgreSQL (Chats)", diagram.Attrs{"bgcolor": "#e8f5e9"}, func() {
		persistence = b.Node("Persistence", nil, diagram.WithIcon(iconCSharp))
		convContext = b.Node("DbContext", nil, diagram.WithIcon(iconCSharp))
		threads = b.Node("Threads", nil, diagram.WithIcon(iconPostgres))
	}, diagram.WithRole(diagram.RoleDatabase))

	b.Edge(agent, taskRepo, diagram.Attrs{"label": "Tasks"})
	b.Chain(nil, taskRepo, taskContext, taskTable)
	b.Edge(agent, persistence, diagram.Attrs{"label": "Chats"})
	b.Chain(nil, persistence, convContext, threads)

	return b.Diagram()
}

func buildObservability(style diagram.Style) (*diagram.Diagram, error) {
	d, err := diagram.New("TaskAgent - Observability", style,
		diagram.WithName("architecture-observability"),
		diagram.WithDirection(diagram.TopToBottom),
		diagram.WithGraphAttrs(diagram.Attrs{"ranksep": "0.7"}))
	if err != nil {
		return nil, err
	}
	b := diagram.NewBuilder(d)

	webapi := b.Node("WebApi", nil, diagram.WithIcon(iconDotNet))

	var serilog, traces, metrics *diagram.Node
	b.Cluster("Telemetry", nil, func() {
		serilog = b.Node("Serilog", nil, diagram.WithIcon(iconCSharp))
		traces = b.Node("Tracing", nil, diagram.WithIcon(iconCSharp))
		metrics = b.Node("Metrics", nil, diagram.WithIcon(iconCSharp))
	}, diagram.WithRole(diagram.RoleBackend))

	var aspire *diagram.Node
	b.Cluster("Development", nil, func() {
		aspire = b.Node("Aspire", nil, diagram.WithIcon(iconInsights))
	}, diagram.WithRole(diagram.RoleCloud))

	var insights, monitor *diagram.Node
	b.Cluster("Production", nil, func() {
		insights = b.Node("App Insights", nil, diagram.WithIcon(iconInsights))
		monitor = b.Node("Monitor", nil, diagram.WithIcon(iconMonitor))
	}, diagram.WithRole(diagram.RoleObservability))

	b.Edge(webapi, serilog, nil)
	b.Edge(webapi, traces, nil)
	b.Edge(webapi, metrics, nil)

	b.Edge(serilog, aspire, diagram.Attrs{"label": "OTLP"})
	b.Edge(traces, aspire, nil)
	b.Edge(metrics, aspire, nil)

	b.Edge(serilog, insights, dashed(""))
	b.Edge(traces, insights, dashed(""))
	b.Edge(metrics, monitor, dashed(""))

	return b.Diagram()
}

func buildContentSafety(style diagram.Style) (*diagram.Diagram, error) {
	d, err := diagram.New("TaskAgent - Content Safety", style,
		diagram.WithName("architecture-content-safety"),
		diagram.WithDirection(diagram.LeftToRight),
		diagram.WithGraphAttrs(diagram.Attrs{"nodesep": "0.6", "ranksep": "0.6", "splines": diagram.SplinesPolyline}))
	if err != nil {
		return nil, err
	}
	b := diagram.NewBuilder(d)

	user := b.Node("User", nil, diagram.WithIcon(iconUser))

	var input, output *diagram.Node
	b.Cluster("Frontend", nil, func() {
		input = b.Node("Input", nil, diagram.WithIcon(iconNextJS))
		output = b.Node("Output", nil, diagram.WithIcon(iconNextJS))
	}, diagram.WithRole(diagram.RoleFrontend))

	var service *diagram.Node
	b.Cluster("Backend", nil, func() {
		service = b.Node("Service", nil, diagram.WithIcon(iconDotNet))
	}, diagram.WithRole(diagram.RoleBackend))

	var openai, filter *diagram.Node
	b.Cluster("Azure OpenAI", nil, func() {
		openai = b.Node("GPT-4o-mini", nil, diagram.WithIcon(iconOpenAI))
		filter = b.Node("Filter", nil, diagram.WithIcon(iconCognitive))
	}, diagram.WithRole(diagram.RoleCloud))

	b.Edge(user, input, nil)

	b.Edge(input, service, nil)
	b.Chain(nil, service, openai, filter)
	b.Edge(filter, service, colored(colorAllowed))
	b.Edge(service, output, colored(colorAllowed))

	b.Edge(filter, output, diagram.Attrs{"color": colorBlocked, "style": "dashed"})

	return b.Diagram()
}

package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

const penURLDescription = "Full CodePen URL (e.g. https://codepen.io/johndjameson/pen/DwxMqa) or slug (e.g. johndjameson/pen/DwxMqa)"

func (s *Server) registerTools() {
	s.addTool(mcp.NewTool("get_pen_metadata",
		mcp.WithDescription("Fetch CodePen pen metadata from the official oEmbed API. "+
			"Returns title, author, thumbnail, and embed iframe HTML. Does not include source code. "+
			"Use when you only need metadata or embed snippet."),
		mcp.WithTitleAnnotation("Get Pen Metadata"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("pen_url",
			mcp.Required(),
			mcp.Description(penURLDescription),
		),
	), s.handleGetPenMetadata)

	s.addTool(mcp.NewTool("get_pen",
		mcp.WithDescription("Fetch a CodePen pen's full source (HTML, CSS, JS), metadata, tags, external resources, "+
			"and preprocessors by parsing the public pen page. Use when you need to ingest, inspect, or understand the code. "+
			"Note: This parses the pen page and may break if CodePen changes their front-end."),
		mcp.WithTitleAnnotation("Get Pen (Full Source)"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("pen_url",
			mcp.Required(),
			mcp.Description(penURLDescription),
		),
	), s.handleGetPen)

	s.addTool(mcp.NewTool("get_pen_embed_html",
		mcp.WithDescription("Get the iframe embed HTML for a CodePen pen via oEmbed. Optionally specify height. "+
			"Use when the user wants embed code to paste into a blog or page."),
		mcp.WithTitleAnnotation("Get Pen Embed HTML"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("pen_url",
			mcp.Required(),
			mcp.Description("Full CodePen URL or slug (e.g. johndjameson/pen/DwxMqa)"),
		),
		mcp.WithNumber("height",
			mcp.Description("Optional iframe height in pixels (default from oEmbed)"),
		),
	), s.handleGetPenEmbedHTML)
}

package story

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
)

// TemplateVars contains variables for the story HTML template.
type TemplateVars struct {
	Width       int
	Height      int
	BrandName   string
	LogoURI     template.URL // empty hides the logo image
	ContentURI  template.URL
	CTAMain     string
	CTASub      string
	SubFontSize float64
	TapText     string
}

// dataURI returns a base64 PNG data URI. template.URL keeps html/template
// from rewriting it.
func dataURI(png []byte) template.URL {
	if len(png) == 0 {
		return ""
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}

// RenderHTML renders the story HTML template with the given variables.
func RenderHTML(vars TemplateVars) (string, error) {
	tmpl, err := template.New("story").Parse(storyHTMLTemplate)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}

const storyHTMLTemplate = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <style>
      body {
        margin: 0;
        padding: 0;
        width: {{.Width}}px;
        height: {{.Height}}px;
        background: linear-gradient(135deg, #1a1a1a 0%, #2d2d2d 100%);
        font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
        position: relative;
        overflow: hidden;
      }
      .bg-circle {
        position: absolute;
        border: 2px solid #FF8C00;
        border-radius: 50%;
        opacity: 0.3;
      }
      .bg-circle-1 { width: 300px; height: 300px; top: -150px; left: -150px; }
      .bg-circle-2 { width: 200px; height: 200px; top: 50px; right: -100px; }
      .bg-circle-3 { width: 250px; height: 250px; bottom: -125px; left: 50px; }
      .bg-circle-4 { width: 180px; height: 180px; bottom: 100px; right: -90px; }
      .bg-circle-5 { width: 120px; height: 120px; top: 300px; left: 100px; }
      .bg-circle-6 { width: 150px; height: 150px; top: 200px; right: 200px; }
      .content-container {
        display: flex;
        flex-direction: column;
        align-items: center;
        justify-content: center;
        width: 100%;
        height: 100%;
        position: relative;
      }
      .logo-section {
        position: absolute;
        top: 160px;
        display: flex;
        align-items: center;
        gap: 24px;
      }
      .logo-image {
        width: 100px;
        height: 100px;
        border-radius: 20px;
      }
      .logo-text {
        font-size: 48px;
        font-weight: 900;
        color: #FF8C00;
        text-shadow: 0 5px 12px rgba(0,0,0,0.8);
      }
      .content-image {
        max-width: 95%;
        max-height: 40%;
        border-radius: 20px;
        box-shadow: 0 30px 60px rgba(0,0,0,0.5);
        margin-top: -40px;
        margin-bottom: 300px;
      }
      .cta-section {
        text-align: center;
      }
      .cta-main {
        font-size: 64px;
        font-weight: 900;
        color: #FF8C00;
        margin-bottom: 36px;
        text-shadow: 0 5px 10px rgba(0,0,0,0.8);
        line-height: 0.9;
      }
      .cta-sub {
        font-size: {{printf "%.2f" .SubFontSize}}px;
        color: #FFFFFF;
        opacity: 0.95;
        margin-bottom: 56px;
        font-weight: 700;
        line-height: 1.0;
        max-width: 85%;
        margin-left: auto;
        margin-right: auto;
      }
      .tap-indicator {
        display: inline-block;
        background: linear-gradient(45deg, #FF8C00, #FFA500);
        color: white;
        padding: 32px 80px;
        border-radius: 50px;
        font-size: 32px;
        font-weight: 900;
        box-shadow: 0 20px 50px rgba(255, 140, 0, 0.6);
        text-transform: uppercase;
        letter-spacing: 2px;
      }
    </style>
  </head>
  <body>
    <div class="bg-circle bg-circle-1"></div>
    <div class="bg-circle bg-circle-2"></div>
    <div class="bg-circle bg-circle-3"></div>
    <div class="bg-circle bg-circle-4"></div>
    <div class="bg-circle bg-circle-5"></div>
    <div class="bg-circle bg-circle-6"></div>
    <div class="content-container">
      <div class="logo-section">
        {{if .LogoURI}}<img class="logo-image" src="{{.LogoURI}}" />{{end}}
        <div class="logo-text">{{.BrandName}}</div>
      </div>
      <img class="content-image" src="{{.ContentURI}}" />
      <div class="cta-section">
        <div class="cta-main">{{.CTAMain}}</div>
        <div class="cta-sub">{{.CTASub}}</div>
        <div class="tap-indicator">{{.TapText}}</div>
      </div>
    </div>
  </body>
</html>`

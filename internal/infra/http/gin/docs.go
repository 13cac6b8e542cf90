package ginserver

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	gin "github.com/gin-gonic/gin"
)

const (
	docsPath    = "/swagger"
	docsSpecURL = docsPath + "/doc.json"
)

//go:embed swagger/openapi.json
var openAPIDocument []byte

//go:embed swagger/index.html
var docsPageSource string

// apiDocs serves the OpenAPI document of the pricing API and a Swagger UI
// page titled from the document's info block.
type apiDocs struct {
	document []byte
	page     []byte
	etag     string
}

func newAPIDocs() (*apiDocs, error) {
	var doc struct {
		Info struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
	}
	if err := json.Unmarshal(openAPIDocument, &doc); err != nil {
		return nil, fmt.Errorf("openapi document: %w", err)
	}
	tmpl, err := template.New("docs").Parse(docsPageSource)
	if err != nil {
		return nil, fmt.Errorf("docs page: %w", err)
	}
	var page bytes.Buffer
	err = tmpl.Execute(&page, struct{ Title, Version, SpecURL string }{
		Title:   doc.Info.Title,
		Version: doc.Info.Version,
		SpecURL: docsSpecURL,
	})
	if err != nil {
		return nil, fmt.Errorf("docs page: %w", err)
	}
	sum := sha256.Sum256(openAPIDocument)
	return &apiDocs{
		document: openAPIDocument,
		page:     page.Bytes(),
		etag:     `"` + hex.EncodeToString(sum[:8]) + `"`,
	}, nil
}

func (d *apiDocs) register(router gin.IRoutes) {
	router.GET(docsSpecURL, d.serveDocument)
	router.GET(docsPath, d.servePage)
}

func (d *apiDocs) serveDocument(c *gin.Context) {
	c.Header("ETag", d.etag)
	if c.GetHeader("If-None-Match") == d.etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/json", d.document)
}

func (d *apiDocs) servePage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", d.page)
}

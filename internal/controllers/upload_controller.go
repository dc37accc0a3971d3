package controllers

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/minimav/running-app/internal/gps"
)

// UploadRun parses an uploaded GPS activity file into a WKT linestring.
// Only .tcx uploads are accepted; a file that cannot be parsed comes back
// 422 with the reason and the raw upload for inspection.
func UploadRun(c *gin.Context) {
	fileHeader, err := c.FormFile("uploaded_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if filepath.Ext(fileHeader.Filename) != ".tcx" {
		c.Status(http.StatusUnsupportedMediaType)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	linestring, err := gps.ParseTCX(raw)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"failure_reason": err.Error(),
			"raw_xml":        string(raw),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"linestring": linestring})
}

// Package api provides the REST API server for drumtext2midi
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/james-see/drumtext2midi/pkg/converter"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title DrumText2MIDI API
// @version 1.0
// @description API for converting drum pattern text files to MIDI
// @host localhost:8080
// @BasePath /api/v1

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	r := gin.Default()

	// CORS + request ID middleware
	r.Use(corsMiddleware())
	r.Use(requestIDMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/convert", handleConvert)
		v1.POST("/dump", handleDump)
		v1.GET("/drums", listDrums)
		v1.GET("/formats", listFormats)
		v1.GET("/defaults", listDefaults)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r.Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "drumtext2midi",
	})
}

// listDrums godoc
// @Summary List the drum table
// @Description Returns the fixed drum key to MIDI note table
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]converter.Drum
// @Router /api/v1/drums [get]
func listDrums(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"drums": converter.Drums(),
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns a list of supported file formats and conversions
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats":     []string{"pattern", "midi", "json"},
		"conversions": converter.SupportedConversions(),
	})
}

// listDefaults godoc
// @Summary Show the default conversion options
// @Description Returns the option values used when no overrides are given
// @Tags info
// @Produce json
// @Success 200 {object} converter.Options
// @Router /api/v1/defaults [get]
func listDefaults(c *gin.Context) {
	c.JSON(http.StatusOK, converter.DefaultOptions())
}

// handleConvert godoc
// @Summary Convert a drum pattern to MIDI
// @Description Upload a pattern file and receive the rendered MIDI file. The X-Pattern-Warnings header carries the number of skipped lines.
// @Tags convert
// @Accept multipart/form-data
// @Produce audio/midi
// @Param file formData file true "pattern file to convert"
// @Param bpm query int false "tempo in BPM (30-240)"
// @Param note_duration query int false "step subdivision code (1,2,4,8,16,32,64)"
// @Param accent_velocity query int false "accented hit velocity (0-100)"
// @Param normal_velocity query int false "normal hit velocity (0-100)"
// @Param flam_velocity query int false "flam grace note velocity (0-100)"
// @Param flam_duration query int false "flam subdivision code (64,128,256)"
// @Param no_flams query bool false "render flam steps as plain hits"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert [post]
func handleConvert(c *gin.Context) {
	conv, ok := converterFromQuery(c)
	if !ok {
		return
	}
	data, name, ok := uploadedFile(c)
	if !ok {
		return
	}

	result, warnings, err := conv.Convert(data, name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("X-Pattern-Warnings", strconv.Itoa(len(warnings)))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputName(name)))
	c.Data(http.StatusOK, "audio/midi", result)
}

// handleDump godoc
// @Summary Render the JSON debug view
// @Description Upload a pattern or MIDI file and receive the decoded MIDI content as JSON
// @Tags convert
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "pattern or MIDI file"
// @Param bpm query int false "tempo in BPM (30-240)"
// @Param note_duration query int false "step subdivision code (1,2,4,8,16,32,64)"
// @Param accent_velocity query int false "accented hit velocity (0-100)"
// @Param normal_velocity query int false "normal hit velocity (0-100)"
// @Param flam_velocity query int false "flam grace note velocity (0-100)"
// @Param flam_duration query int false "flam subdivision code (64,128,256)"
// @Param no_flams query bool false "render flam steps as plain hits"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/dump [post]
func handleDump(c *gin.Context) {
	conv, ok := converterFromQuery(c)
	if !ok {
		return
	}
	data, name, ok := uploadedFile(c)
	if !ok {
		return
	}

	out, warnings, err := conv.Dump(data, name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"warnings": warningStrings(warnings),
		"midi":     json.RawMessage(out),
	})
}

// converterFromQuery builds a Converter from the option query
// parameters, answering 400 before any file handling when they are out
// of range.
func converterFromQuery(c *gin.Context) (*converter.Converter, bool) {
	opts, err := optionsFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	conv, err := converter.New(opts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return conv, true
}

func optionsFromQuery(c *gin.Context) (converter.Options, error) {
	opts := converter.DefaultOptions()
	ints := []struct {
		name   string
		target *int
	}{
		{"bpm", &opts.BPM},
		{"note_duration", &opts.NoteDuration},
		{"accent_velocity", &opts.AccentVelocity},
		{"normal_velocity", &opts.NormalVelocity},
		{"flam_velocity", &opts.FlamVelocity},
		{"flam_duration", &opts.FlamDuration},
	}
	for _, p := range ints {
		v := c.Query(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("invalid %s: %q is not an integer", p.name, v)
		}
		*p.target = n
	}
	if v := c.Query("no_flams"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid no_flams: %q is not a boolean", v)
		}
		opts.NoFlams = b
	}
	return opts, nil
}

func uploadedFile(c *gin.Context) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, "", false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, "", false
	}
	return data, header.Filename, true
}

func outputName(input string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		name = "converted"
	}
	return name + ".mid"
}

func warningStrings(warnings []converter.LineError) []string {
	out := make([]string, 0, len(warnings))
	for i := range warnings {
		out = append(out, warnings[i].Error())
	}
	return out
}

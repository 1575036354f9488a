// Package sim runs the appliance on a workstation: HTTP requests play the
// part of the radio and a PNG shows the LED matrix.
package sim

import (
	"bytes"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"nifri2/neomatrix/internal/console"
	"nifri2/neomatrix/internal/display"
	"nifri2/neomatrix/internal/remote"
)

// Server exposes the simulated appliance over HTTP.
type Server struct {
	pipeline *remote.Pipeline
	strip    *display.FrameBuffer
	layout   display.Layout
	console  *console.Deps
	status   func() string
	router   *gin.Engine
}

type Deps struct {
	Pipeline *remote.Pipeline
	Strip    *display.FrameBuffer
	Layout   display.Layout
	// Console enables POST /console. Each request gets its own console so
	// the reply carries only that request's output.
	Console *console.Deps
	// Status describes the game state.
	Status func() string
}

type packetRequest struct {
	MAC  string `json:"mac" binding:"required"`
	Data string `json:"data" binding:"required"`
}

func NewServer(d Deps) *Server {
	s := &Server{
		pipeline: d.Pipeline,
		strip:    d.Strip,
		layout:   d.Layout,
		console:  d.Console,
		status:   d.Status,
		router:   gin.New(),
	}
	s.router.Use(gin.Recovery())

	s.router.POST("/packets", s.postPacket)
	s.router.GET("/frame.png", s.getFrame)
	s.router.GET("/status", s.getStatus)
	s.router.POST("/console", s.postConsole)
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Run listens on addr until the listener fails.
func (s *Server) Run(addr string) error { return s.router.Run(addr) }

func (s *Server) postPacket(c *gin.Context) {
	var req packetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mac, err := remote.ParseMAC(req.MAC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	data, err := hex.DecodeString(strings.ReplaceAll(req.Data, ":", ""))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data: " + err.Error()})
		return
	}

	if err := s.pipeline.Receive(mac, data); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": len(data)})
}

func (s *Server) getFrame(c *gin.Context) {
	opts := PreviewOptions{Landscape: c.Query("landscape") == "1"}
	if v := c.Query("cell"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 64 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cell must be 1..64"})
			return
		}
		opts.Cell = n
	}
	if v := c.Query("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 4096 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "width must be 1..4096"})
			return
		}
		opts.Width = n
	}

	img := Preview(s.strip.Snapshot(), s.layout, opts)
	c.Header("Content-Type", "image/png")
	c.Header("Cache-Control", "no-store")
	if err := imaging.Encode(c.Writer, img, imaging.PNG); err != nil {
		_ = c.Error(err)
	}
}

func (s *Server) getStatus(c *gin.Context) {
	peers := []string{}
	for _, m := range s.pipeline.Peers().Peers() {
		peers = append(peers, m.String())
	}
	game := ""
	if s.status != nil {
		game = s.status()
	}
	c.JSON(http.StatusOK, gin.H{
		"pipeline": s.pipeline.Stats(),
		"peers":    peers,
		"game":     game,
		"button":   s.pipeline.Buttons().Peek().Button.String(),
		"writes":   s.strip.Writes(),
	})
}

func (s *Server) postConsole(c *gin.Context) {
	if s.console == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "console disabled"})
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := []gin.H{}
	for _, line := range strings.Split(string(body), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var out bytes.Buffer
		res := gin.H{"command": line}
		if err := console.New(&out, *s.console).Exec(line); err != nil {
			res["error"] = err.Error()
		}
		res["output"] = out.String()
		results = append(results, res)
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

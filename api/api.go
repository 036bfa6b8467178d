package api

import (
	"fmt"
	"image/png"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/sky-node-escape/config"
	"github.com/hoshinonyaruko/sky-node-escape/event"
	"github.com/hoshinonyaruko/sky-node-escape/memimg"
	"github.com/hoshinonyaruko/sky-node-escape/structs"
)

// Driver is what the handlers need from the frame loop.
type Driver interface {
	Send(intent structs.Intent) bool
	Resize(width, height int) bool
	Snapshot() structs.Snapshot
}

// IntentHandler 排队一个玩家意图，下一帧开头生效
func IntentHandler(d Driver) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		intent, ok := structs.ParseIntent(name)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown intent '%s'", name)})
			return
		}
		if !d.Send(intent) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "intent queue is full"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"intent": intent.String()})
	}
}

// FrameHandler 返回最新一帧的PNG，width参数按比例缩放
func FrameHandler(frames *memimg.FrameStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		width, err := strconv.Atoi(c.DefaultQuery("width", "0"))
		if err != nil || width < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "width must be a non-negative integer"})
			return
		}
		img, ok := frames.Scaled(width)
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no frame rendered yet"})
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Header("Content-Type", "image/png")
		c.Status(http.StatusOK)
		if err := png.Encode(c.Writer, img); err != nil {
			log.Printf("api: encode frame: %v", err)
		}
	}
}

// SaveFrameHandler 把最新一帧写到静态目录并返回静态地址
func SaveFrameHandler(frames *memimg.FrameStore, staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		img, seq, ok := frames.Latest()
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no frame rendered yet"})
			return
		}
		fileName := filepath.Join(staticDir, "frame.png")
		if err := gg.SavePNG(fileName, img); err != nil {
			log.Printf("api: save frame: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to save frame"})
			return
		}
		imageUrl := fmt.Sprintf("http://%s/static/frame.png", config.GetConfigValue("selfpath"))
		c.JSON(http.StatusOK, gin.H{"image_url": imageUrl, "seq": seq})
	}
}

// StatsHandler 返回上一帧发布的快照
func StatsHandler(d Driver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, d.Snapshot())
	}
}

// ResizeHandler 排队一次画布尺寸变化
func ResizeHandler(d Driver) gin.HandlerFunc {
	return func(c *gin.Context) {
		width, errW := strconv.Atoi(c.Query("width"))
		height, errH := strconv.Atoi(c.Query("height"))
		if errW != nil || errH != nil || width <= 0 || height <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid query parameters: width, height"})
			return
		}
		if !d.Resize(width, height) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "command queue is full"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"width": width, "height": height})
	}
}

// EventsHandler streams game-over events as Server-Sent Events until the client goes away.
func EventsHandler(bus *event.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		ch, cancel := bus.Subscribe(event.DefaultBuffer)
		defer cancel()

		c.Header("Cache-Control", "no-cache")
		c.Stream(func(w io.Writer) bool {
			select {
			case <-c.Request.Context().Done():
				return false
			case ev, ok := <-ch:
				if !ok {
					return false
				}
				c.SSEvent("gameover", ev)
				return true
			}
		})
	}
}

// NewRouter wires every route. staticDir is served under /static.
func NewRouter(d Driver, frames *memimg.FrameStore, bus *event.Bus, staticDir string) *gin.Engine {
	router := gin.Default()
	// 玩家意图
	router.POST("/intent/:name", IntentHandler(d))
	// 渲染结果
	router.GET("/frame.png", FrameHandler(frames))
	router.GET("/frame", SaveFrameHandler(frames, staticDir))
	router.GET("/stats", StatsHandler(d))
	router.POST("/resize", ResizeHandler(d))
	router.GET("/events", EventsHandler(bus))
	if err := os.MkdirAll(staticDir, 0755); err != nil {
		log.Printf("api: create %s: %v", staticDir, err)
	}
	router.Static("/static", staticDir) // 静态文件服务
	return router
}

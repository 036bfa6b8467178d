package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/sky-node-escape/api"
	"github.com/hoshinonyaruko/sky-node-escape/audio"
	"github.com/hoshinonyaruko/sky-node-escape/config"
	"github.com/hoshinonyaruko/sky-node-escape/desktop"
	"github.com/hoshinonyaruko/sky-node-escape/event"
	"github.com/hoshinonyaruko/sky-node-escape/game"
	"github.com/hoshinonyaruko/sky-node-escape/loop"
	"github.com/hoshinonyaruko/sky-node-escape/memimg"
	"github.com/hoshinonyaruko/sky-node-escape/sqlite"
	"github.com/hoshinonyaruko/sky-node-escape/structs"
	"github.com/hoshinonyaruko/sky-node-escape/tui"
	"github.com/hoshinonyaruko/sky-node-escape/ui"
)

const (
	configPath = "./config.json"
	staticDir  = "./static"
	logPath    = "./skynode.log"
)

// tuner is anything that can take new tuning from the config watcher.
type tuner interface {
	SetTuning(structs.Tuning) bool
}

func main() {
	EnsureFoldersExist()
	// Initialize the configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 终端模式下日志写文件，避免弄乱画面
	if cfg.Mode == "terminal" {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("Failed to open %s: %v", logPath, err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	bus := event.NewBus()
	g := game.New(cfg.Tuning, cfg.Width, cfg.Height, &sqlite.Store{DB: db}, bus, rand.New(rand.NewSource(time.Now().UnixNano())))

	overlayEvents, cancelOverlay := bus.Subscribe(event.DefaultBuffer)
	defer cancelOverlay()
	overlay := ui.NewAdapter(overlayEvents, cfg.BlurSigma)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	onIntent := startAudio(cfg, bus)

	switch cfg.Mode {
	case "terminal":
		err = runTerminal(ctx, g, overlay, onIntent)
	case "desktop":
		w := desktop.New(g, overlay)
		w.OnIntent = onIntent
		go watchTuning(ctx, w)
		err = desktop.Run(w, ui.Title)
	default:
		err = runServer(ctx, cfg, g, overlay, bus, onIntent)
	}
	if err != nil {
		log.Fatalf("%s mode stopped: %v", cfg.Mode, err)
	}
}

// startAudio subscribes the sound cues when enabled. It returns the flap hook, which may be nil.
func startAudio(cfg *config.AppConfig, bus *event.Bus) func(structs.Intent) {
	if !cfg.Sound {
		return nil
	}
	sound := audio.NewPlayer()
	if err := sound.Init(); err != nil {
		// Non-fatal, game can run without sound
		log.Printf("Audio initialization failed: %v", err)
		return nil
	}
	events, _ := bus.Subscribe(event.DefaultBuffer)
	go sound.Listen(events)
	return func(intent structs.Intent) {
		if intent == structs.IntentFlap {
			sound.Flap()
		}
	}
}

func watchTuning(ctx context.Context, t tuner) {
	err := config.Watch(configPath, ctx.Done(), func(c *config.AppConfig) {
		if !t.SetTuning(c.Tuning) {
			log.Println("config: tuning update still pending, dropped")
		}
	})
	if err != nil {
		log.Printf("config: watch disabled: %v", err)
	}
}

func runTerminal(ctx context.Context, g *game.Game, overlay *ui.Adapter, onIntent func(structs.Intent)) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	app := tui.New(screen, g, overlay)
	app.OnIntent = onIntent
	go watchTuning(ctx, app)
	return app.Run(ctx)
}

func runServer(ctx context.Context, cfg *config.AppConfig, g *game.Game, overlay *ui.Adapter, bus *event.Bus, onIntent func(structs.Intent)) error {
	frames := memimg.NewFrameStore()
	driver := loop.New(g, overlay, frames, cfg.FPS)
	driver.OnIntent = onIntent
	go driver.Run(ctx)
	go watchTuning(ctx, driver)

	router := api.NewRouter(driver, frames, bus, staticDir)
	// 从配置单例读取端口 监听
	srv := &http.Server{Addr: ":" + config.GetConfigValue("port").(string), Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	log.Printf("Listening on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// EnsureFoldersExists 检查并创建必需的文件夹
func EnsureFoldersExist() {
	folders := []string{staticDir}

	for _, folder := range folders {
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			// 文件夹不存在，尝试创建它
			err := os.Mkdir(folder, 0755) // 使用0755权限以确保读写权限
			if err != nil {
				log.Fatalf("Failed to create %s directory: %s", folder, err)
			}
			log.Printf("Created %s directory", folder)
		}
	}
}

package structs

import "strings"

// State 描述游戏会话所处的阶段。
type State int

const (
	StateMenu State = iota
	StatePlaying
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

// MarshalText lets State appear as its name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Intent is a discrete player command consumed at the top of a frame.
type Intent int

const (
	IntentNone Intent = iota
	IntentFlap
	IntentPause
	IntentStart
	IntentRestart
	IntentMenu
)

func (i Intent) String() string {
	switch i {
	case IntentFlap:
		return "flap"
	case IntentPause:
		return "pause"
	case IntentStart:
		return "start"
	case IntentRestart:
		return "restart"
	case IntentMenu:
		return "menu"
	default:
		return "none"
	}
}

// ParseIntent maps an intent name to its value. Unknown names yield IntentNone and false.
func ParseIntent(name string) (Intent, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "flap", "jump":
		return IntentFlap, true
	case "pause", "resume":
		return IntentPause, true
	case "start":
		return IntentStart, true
	case "restart":
		return IntentRestart, true
	case "menu", "quit":
		return IntentMenu, true
	default:
		return IntentNone, false
	}
}

// Rect 轴对齐矩形，用于碰撞检测。
type Rect struct {
	X float64 `json:"x"` // 左上角X
	Y float64 `json:"y"` // 左上角Y
	W float64 `json:"w"` // 宽
	H float64 `json:"h"` // 高
}

// Overlaps reports whether the two rectangles overlap on both axes.
// Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X+r.W > o.X &&
		r.X < o.X+o.W &&
		r.Y+r.H > o.Y &&
		r.Y < o.Y+o.H
}

// Star 背景装饰星星。
type Star struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Size       float64 `json:"size"`
	Speed      float64 `json:"speed"`
	Brightness float64 `json:"brightness"`
}

// Stats 持久化的两个计数。
type Stats struct {
	HighScore   int `json:"highscore"` // 最高分
	GamesPlayed int `json:"games"`     // 游戏局数
}

// GameOverEvent is sent to presentation layers when a session ends.
type GameOverEvent struct {
	Score       int  `json:"score"`
	IsNewRecord bool `json:"isNewRecord"`
	HighScore   int  `json:"highscore"`
	GamesPlayed int  `json:"games"`
}

// Snapshot is a read-only copy of the session published outside the frame loop.
type Snapshot struct {
	State       State   `json:"state"`
	Score       int     `json:"score"`
	HighScore   int     `json:"highscore"`
	GamesPlayed int     `json:"games"`
	Speed       float64 `json:"speed"`
	Difficulty  float64 `json:"difficulty"`
	Obstacles   int     `json:"obstacles"`
	Particles   int     `json:"particles"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Tick        uint64  `json:"tick"`
}

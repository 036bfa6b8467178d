package structs

// PlayerTuning 玩家物理参数。
type PlayerTuning struct {
	Size        float64 `json:"size"`        // 精灵边长
	Radius      float64 `json:"radius"`      // 绘制与碰撞半径
	HitboxInset float64 `json:"hitboxinset"` // 碰撞盒内缩
	Gravity     float64 `json:"gravity"`     // 每帧重力
	Jump        float64 `json:"jump"`        // 振翅冲量，负值向上
	MaxVelocity float64 `json:"maxvelocity"` // 速度上限
	StartX      float64 `json:"startx"`      // 起始X占宽度比例
	StartY      float64 `json:"starty"`      // 起始Y占高度比例
}

// SpawnerTuning 障碍物生成参数，时间单位为毫秒。
type SpawnerTuning struct {
	Interval         float64 `json:"interval"`
	MinInterval      float64 `json:"mininterval"`
	IntervalDecrease float64 `json:"intervaldecrease"` // 每单位难度减少的间隔
	ObstacleWidth    float64 `json:"obstaclewidth"`
	MinGap           float64 `json:"mingap"`
	MaxGap           float64 `json:"maxgap"`
	MinGapY          float64 `json:"mingapy"` // 缺口中心下限，占高度比例
	MaxGapY          float64 `json:"maxgapy"` // 缺口中心上限，占高度比例
	Color            string  `json:"color"`
}

// Tuning 汇总一局游戏的全部可调参数。
type Tuning struct {
	BaseSpeed       float64       `json:"basespeed"`
	MaxSpeed        float64       `json:"maxspeed"`
	SpeedIncrement  float64       `json:"speedincrement"`  // 每帧增速
	ScoreIncrement  float64       `json:"scoreincrement"`  // 每帧得分
	DifficultyScale float64       `json:"difficultyscale"` // 难度 = 1 + (速度-基础速度)*比例
	MaxFrameDelta   float64       `json:"maxframedelta"`   // dt上限，毫秒
	ShakeDecay      float64       `json:"shakedecay"`
	ShakeSnap       float64       `json:"shakesnap"`
	TrailChance     float64       `json:"trailchance"`
	Stars           int           `json:"stars"`
	MaxParticles    int           `json:"maxparticles"`
	Player          PlayerTuning  `json:"player"`
	Spawner         SpawnerTuning `json:"spawner"`
}

// DefaultTuning returns the values the game ships with.
func DefaultTuning() Tuning {
	return Tuning{
		BaseSpeed:       3,
		MaxSpeed:        8,
		SpeedIncrement:  0.001,
		ScoreIncrement:  0.1,
		DifficultyScale: 0.5,
		MaxFrameDelta:   32,
		ShakeDecay:      0.9,
		ShakeSnap:       0.1,
		TrailChance:     0.3,
		Stars:           100,
		MaxParticles:    600,
		Player: PlayerTuning{
			Size:        40,
			Radius:      20,
			Gravity:     0.4,
			Jump:        -7,
			MaxVelocity: 10,
			StartX:      0.3,
			StartY:      0.4,
		},
		Spawner: SpawnerTuning{
			Interval:         2000,
			MinInterval:      800,
			IntervalDecrease: 50,
			ObstacleWidth:    60,
			MinGap:           100,
			MaxGap:           250,
			MinGapY:          0.2,
			MaxGapY:          0.8,
			Color:            "#ff00aa",
		},
	}
}

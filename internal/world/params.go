package world

// Params sizes the bodies and the row layout. Lengths are in meters, masses
// in kilograms.
type Params struct {
	RobotRadius float64 `yaml:"robot_radius"`
	RobotMass   float64 `yaml:"robot_mass"`
	BallRadius  float64 `yaml:"ball_radius"`
	BallMass    float64 `yaml:"ball_mass"`
	Friction    float64 `yaml:"friction"`
	Elasticity  float64 `yaml:"elasticity"`

	RowOriginX float64 `yaml:"row_origin_x"`
	// RowOriginY of zero places the row one robot diameter above the floor.
	RowOriginY float64 `yaml:"row_origin_y"`
	RowGap     float64 `yaml:"row_gap"`

	BallX float64 `yaml:"ball_x"`
	BallY float64 `yaml:"ball_y"`
}

func DefaultParams() Params {
	return Params{
		RobotRadius: 0.2,
		RobotMass:   2.5,
		BallRadius:  0.045,
		BallMass:    0.046,
		Friction:    0.7,
		Elasticity:  0.5,
		RowOriginX:  0.6,
		RowGap:      0.1,
		BallX:       1.5,
		BallY:       2.5,
	}
}

func (p Params) rowY() float64 {
	if p.RowOriginY != 0 {
		return p.RowOriginY
	}
	return 2 * p.RobotRadius
}

// Scene is the standard field: one ball and a row of robots.
type Scene struct {
	Params Params
	Robots int
}

// Build creates a world holding the scene. The ball is created first.
func Build(scene Scene) *World {
	w := New(scene.Params)
	w.CreateBody(Ball, scene.Params.BallX, scene.Params.BallY)
	w.ArrangeRow(scene.Robots)
	return w
}

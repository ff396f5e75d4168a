package param

type JsonOpt struct {
	Json bool `arg:"--json" help:"emit raw JSON instead of rendered output"`
}

type Ship struct {
	JsonOpt
}

type Build struct {
	JsonOpt
}

type Deploy struct {
	Image string `arg:"-i,--image" help:"deploy a prebuilt image instead of building"`
	JsonOpt
}

type Describe struct {
	JsonOpt
}

type Config struct{}

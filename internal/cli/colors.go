package cli

// Colors holds the ANSI sequences used by text output. All fields are empty
// when colour is disabled.
type Colors struct {
	Reset   string
	Present string
	Absent  string
	Key     string
}

func ResolveColors(colorize bool) Colors {
	if !colorize {
		return Colors{}
	}
	return Colors{
		Reset:   "\033[0m",
		Present: "\033[32m",
		Absent:  "\033[31m",
		Key:     "\033[36m",
	}
}

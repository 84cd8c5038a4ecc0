package config

const (
	defaultAudioDir        = "~/datasets/MedleyDB_Format/Audio"
	defaultModifiedDir     = "~/datasets/MedleyDB_Format/Modified_MIX"
	defaultDownloadDir     = "~/datasets/unzipped"
	defaultErrorLog        = "~/.local/share/mixprep/error_downloading.txt"
	defaultLogDir          = "~/.local/share/mixprep/logs"
	defaultTargetLUFS      = -23.0
	defaultSampleSize      = 30
	defaultWorkers         = 1
	defaultDownloadTimeout = 30
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// defaultInstruments lists the instrument labels the recognition model was
// trained on. The empty label is deliberately allowed.
var defaultInstruments = []string{
	"", "flute", "french horn", "viola section", "viola", "toms", "synthesizer",
	"gong", "bamboo flute", "alto saxophone", "clarinet", "gu", "zhongruan",
	"distorted electric guitar", "trombone", "tack piano", "violin", "piccolo",
	"fx/processed sound", "vibraphone", "double bass", "trombone section",
	"tenor saxophone", "darbuka", "vocalists", "harmonica", "clarinet section",
	"bass drum", "baritone saxophone", "sampler", "flute section", "violin section",
	"oboe", "french horn section", "doumbek", "horn section", "female singer",
	"cymbal", "accordion", "cello section", "guzheng", "tuba", "liuqin",
	"clean electric guitar", "bassoon", "glockenspiel", "auxiliary percussion",
	"lap steel guitar", "banjo", "yangqin", "acoustic guitar", "piano",
	"brass section", "timpani", "trumpet section", "scratches", "trumpet", "erhu",
	"electric piano", "bass clarinet", "dizi", "mandolin", "harp", "drum machine",
	"electric bass", "tabla", "claps", "bongo", "male rapper", "male singer",
	"shaker", "drum set", "cello", "oud", "soprano saxophone", "tambourine",
	"string section",
}

// DefaultInstruments returns a copy of the built-in instrument whitelist.
func DefaultInstruments() []string {
	out := make([]string, len(defaultInstruments))
	copy(out, defaultInstruments)
	return out
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AudioDir:    defaultAudioDir,
			ModifiedDir: defaultModifiedDir,
			DownloadDir: defaultDownloadDir,
			ErrorLog:    defaultErrorLog,
			LogDir:      defaultLogDir,
		},
		Mixing: Mixing{
			TargetLUFS:         defaultTargetLUFS,
			AllowedInstruments: DefaultInstruments(),
			SampleSize:         defaultSampleSize,
			Workers:            defaultWorkers,
		},
		Download: Download{
			TimeoutSeconds: defaultDownloadTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package config

const (
	defaultTableFile        = "crop_info.md"
	defaultSourceFile       = "original.mp4"
	defaultRootMetadataFile = "info.md"
	defaultLogDir           = "logs"
	defaultPadStartSeconds  = 5.0
	defaultPadEndSeconds    = 5.0
	defaultCamCrop          = "640:720:1280:0"
	defaultScreenCrop       = "1280:720:0:0"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultVideoCodec       = "libx264"
	defaultCRF              = 23
	defaultPreset           = "veryfast"
	defaultStackWidth       = 1080
	defaultStackHeight      = 960
	defaultMinFreeGiB       = 2
	defaultWhisperModel     = "whisper-1"
	defaultTranslateModel   = "gpt-4o-mini"
	defaultTargetLanguage   = "zh-TW"
	defaultTimeoutSeconds   = 600
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TableFile:        defaultTableFile,
			SourceFile:       defaultSourceFile,
			RootMetadataFile: defaultRootMetadataFile,
			LogDir:           defaultLogDir,
		},
		Clip: Clip{
			PadStartSeconds: defaultPadStartSeconds,
			PadEndSeconds:   defaultPadEndSeconds,
		},
		Crops: Crops{
			Cam:    defaultCamCrop,
			Screen: defaultScreenCrop,
		},
		Render: Render{
			FFmpeg:      defaultFFmpegBinary,
			FFprobe:     defaultFFprobeBinary,
			VideoCodec:  defaultVideoCodec,
			CRF:         defaultCRF,
			Preset:      defaultPreset,
			StackWidth:  defaultStackWidth,
			StackHeight: defaultStackHeight,
			MinFreeGiB:  defaultMinFreeGiB,
		},
		Transcription: Transcription{
			Enabled:        true,
			Model:          defaultWhisperModel,
			Translate:      true,
			TranslateModel: defaultTranslateModel,
			TargetLanguage: defaultTargetLanguage,
			TimeoutSeconds: defaultTimeoutSeconds,
			SplitByHour:    true,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

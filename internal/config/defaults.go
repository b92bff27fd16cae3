package config

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	shorten := true
	return &Config{
		Fix: FixConfig{
			Annotation:        "lombok.Builder",
			BuilderMethod:     "builder",
			ShortenReferences: &shorten,
		},
		Scan: ScanConfig{
			Exclude: []string{
				"target/**",
				"build/**",
				"out/**",
				".gradle/**",
				"*Test.java",
			},
		},
		Output: OutputConfig{
			DefaultFormat: "yaml",
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	// Merge Fix config
	result.Fix = mergeFixConfig(loaded.Fix, defaults.Fix)

	// Merge Scan config
	result.Scan = mergeScanConfig(loaded.Scan, defaults.Scan)

	// Merge Output config
	result.Output = mergeOutputConfig(loaded.Output, defaults.Output)

	return result
}

func mergeFixConfig(loaded, defaults FixConfig) FixConfig {
	result := FixConfig{}

	// Annotation: use loaded if non-empty
	if loaded.Annotation != "" {
		result.Annotation = loaded.Annotation
	} else {
		result.Annotation = defaults.Annotation
	}

	// BuilderMethod: use loaded if non-empty
	if loaded.BuilderMethod != "" {
		result.BuilderMethod = loaded.BuilderMethod
	} else {
		result.BuilderMethod = defaults.BuilderMethod
	}

	// ShortenReferences: nil means the config file left it unset; an
	// explicit false is kept.
	result.ShortenReferences = loaded.ShortenReferences
	if result.ShortenReferences == nil {
		result.ShortenReferences = defaults.ShortenReferences
	}

	return result
}

func mergeScanConfig(loaded, defaults ScanConfig) ScanConfig {
	result := ScanConfig{}

	// Use loaded exclude patterns if provided, otherwise defaults
	if len(loaded.Exclude) > 0 {
		result.Exclude = loaded.Exclude
	} else {
		result.Exclude = defaults.Exclude
	}

	return result
}

func mergeOutputConfig(loaded, defaults OutputConfig) OutputConfig {
	result := OutputConfig{}

	// DefaultFormat: use loaded if non-empty
	if loaded.DefaultFormat != "" {
		result.DefaultFormat = loaded.DefaultFormat
	} else {
		result.DefaultFormat = defaults.DefaultFormat
	}

	return result
}

// ValidFormats lists the valid values for output format
var ValidFormats = []string{"yaml", "json"}

// IsValidFormat checks if the given format value is valid
func IsValidFormat(format string) bool {
	for _, valid := range ValidFormats {
		if format == valid {
			return true
		}
	}
	return false
}

package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateClip(); err != nil {
		return err
	}
	if err := c.validateCrops(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateClip() error {
	if c.Clip.PadStartSeconds < 0 {
		return errors.New("clip.pad_start_seconds must not be negative")
	}
	if c.Clip.PadEndSeconds < 0 {
		return errors.New("clip.pad_end_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateCrops() error {
	if _, err := ParseRect(c.Crops.Cam); err != nil {
		return fmt.Errorf("crops.cam: %w", err)
	}
	if _, err := ParseRect(c.Crops.Screen); err != nil {
		return fmt.Errorf("crops.screen: %w", err)
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.CRF < 0 || c.Render.CRF > 51 {
		return errors.New("render.crf must be between 0 and 51")
	}
	if c.Render.StackWidth <= 0 || c.Render.StackWidth%2 != 0 {
		return errors.New("render.stack_width must be a positive even number")
	}
	if c.Render.StackHeight <= 0 || c.Render.StackHeight%2 != 0 {
		return errors.New("render.stack_height must be a positive even number")
	}
	if c.Render.MinFreeGiB < 0 {
		return errors.New("render.min_free_gib must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

package config

import "os"

func osGetwd() (string, error) {
	return os.Getwd()
}

func osMkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func osFileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

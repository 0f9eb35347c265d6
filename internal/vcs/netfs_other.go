//go:build !linux && !darwin

package vcs

func isNetworkFS(string) bool { return false }

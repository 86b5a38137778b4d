package main

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/jmodel/java"
	"github.com/dhamidi/jmodel/java/facts"
)

// factFiles expands every directory in paths into the fact documents below
// it. Hidden directories are skipped.
func factFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", path)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if p != path && strings.HasPrefix(info.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if facts.IsFactFile(p) && filepath.Base(p) != configFileName {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walking %s", path)
		}
	}
	return files, nil
}

func loaderOptions(cfg *Config) []facts.Option {
	if cfg.Lenient {
		return []facts.Option{facts.WithLenientSupertypes()}
	}
	return nil
}

func newLoader(cfg *Config) (*facts.Loader, error) {
	files, err := factFiles(cfg.Facts)
	if err != nil {
		return nil, err
	}
	log.Debugf("loading %d fact documents", len(files))
	return facts.LoadFiles(files, loaderOptions(cfg)...)
}

// findClass accepts a qualified name or any dotted suffix of one that is
// unique among the declared classes.
func findClass(l *facts.Loader, name string) (*java.Class, error) {
	names := l.Names()
	if slices.Contains(names, name) {
		return l.Class(name)
	}
	var matches []string
	for _, qualified := range names {
		if strings.HasSuffix(qualified, "."+name) {
			matches = append(matches, qualified)
		}
	}
	switch len(matches) {
	case 0:
		return l.Class(name)
	case 1:
		return l.Class(matches[0])
	}
	slices.Sort(matches)
	return nil, errors.WithHintf(
		errors.Mark(errors.Newf("%s is ambiguous", name), facts.ErrUnresolvedType),
		"use one of: %s", strings.Join(matches, ", "))
}

// selectClasses resolves names, or every declared class when names is empty.
func selectClasses(l *facts.Loader, names []string) ([]*java.Class, error) {
	if len(names) == 0 {
		return l.Classes()
	}
	classes := make([]*java.Class, 0, len(names))
	for _, name := range names {
		c, err := findClass(l, name)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, nil
}

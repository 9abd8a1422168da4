package util

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

func EnsureOutputDir(dir string) error {
	return errors.Wrap(os.MkdirAll(dir, 0777), "could not create output dir")
}

// GatherAllTablePaths walks path and returns every .csv file in walk order.
// maxNum of 0 means no limit.
func GatherAllTablePaths(path string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(s), ".csv") {
			if maxNum == 0 || len(res) < maxNum {
				res = append(res, s)
			}
		}
		return nil
	}
	if err := filepath.WalkDir(path, walk); err != nil {
		return nil, errors.Wrapf(err, "could not walk %v", path)
	}
	return res, nil
}

// Unique returns the distinct values of items in order of first appearance.
func Unique[A comparable](items []A) []A {
	seen := make(map[A]bool, len(items))
	var res []A
	for _, v := range items {
		if !seen[v] {
			seen[v] = true
			res = append(res, v)
		}
	}
	return res
}

func Max[A constraints.Ordered](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

func Min[A constraints.Ordered](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Sum[A constraints.Integer | constraints.Float](nums []A) A {
	var total A
	for _, v := range nums {
		total += v
	}
	return total
}

func WriteJSON(filename string, data any) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not encode json")
	}
	return errors.Wrapf(os.WriteFile(filename, b, 0666), "could not write %v", filename)
}

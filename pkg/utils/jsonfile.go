package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
)

// LoadJSONArray 读取一个 JSON 数组文件；文件不存在时返回空集合。
func LoadJSONArray[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("[seed] %s not found, starting empty", path)
			return []T{}, nil
		}
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}

	items := []T{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode seed %s: %w", path, err)
	}
	if items == nil {
		items = []T{}
	}
	log.Printf("[seed] loaded %d records from %s", len(items), path)
	return items, nil
}

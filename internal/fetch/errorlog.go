package fetch

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// AppendErrorLog appends rawURL as one line to the error log. Writers in
// separate processes serialize on a sibling .lock file.
func AppendErrorLog(path, rawURL string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("error log path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create error log directory: %w", err)
	}
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock error log: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open error log: %w", err)
	}
	if _, err := file.WriteString(rawURL + "\n"); err != nil {
		file.Close()
		return fmt.Errorf("append error log: %w", err)
	}
	return file.Close()
}

// ReadErrorLog returns the URLs recorded in the error log, in append order.
// A missing log is empty.
func ReadErrorLog(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			urls = append(urls, line)
		}
	}
	return urls, scanner.Err()
}

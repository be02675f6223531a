package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// The operation log gives the stateless CLI undo/redo across process
// invocations. It is a line-oriented file next to the project: line one is
// the header, each further line one entry. Entries before the pointer are
// active (applied to the saved canvas); entries at or after it are undone
// but retained for redo.
//
// Concurrent CLI invocations against the same file are a race by design:
// the whole file is rewritten on every mutation and the last rename wins.

const (
	maxLogEntries = 256
	logSuffix     = ".log"
)

var (
	errNothingToUndo = errors.New("nothing to undo")
	errNothingToRedo = errors.New("nothing to redo")
)

type LogHeader struct {
	Pointer int `json:"pointer"`
	Total   int `json:"total"`
}

type LogEntry struct {
	Timestamp string        `json:"timestamp"`
	Command   string        `json:"command"`
	Mutations []LogMutation `json:"mutations"`
}

type LogMutation struct {
	X   int  `json:"x"`
	Y   int  `json:"y"`
	Old Cell `json:"old"`
	New Cell `json:"new"`
}

// logPath derives the log file path: "art.kaku" -> "art.kaku.log".
func logPath(projectPath string) string {
	return projectPath + logSuffix
}

// initLog writes an empty log containing only a zero header.
func initLog(path string) error {
	return writeLog(path, LogHeader{}, nil)
}

// readLog loads the header and entries. A missing file reads as an empty
// log. A corrupt header is fatal for the file; a corrupt entry line is
// reported on stderr and skipped so the rest of the log stays usable.
func readLog(path string) (LogHeader, []LogEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return LogHeader{}, nil, nil
		}
		return LogHeader{}, nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return LogHeader{}, nil, err
		}
		return LogHeader{}, nil, nil
	}
	var header LogHeader
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil {
		return LogHeader{}, nil, fmt.Errorf("log header corrupt: %w", err)
	}

	var entries []LogEntry
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping corrupt log entry: %v\n", err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return LogHeader{}, nil, err
	}
	return header, entries, nil
}

// writeLog rewrites the whole file through a temp path and rename so a
// reader never sees a partially written log.
func writeLog(path string, header LogHeader, entries []LogEntry) error {
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	writeLine := func(v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		return w.WriteByte('\n')
	}

	err = writeLine(header)
	for i := 0; err == nil && i < len(entries); i++ {
		err = writeLine(entries[i])
	}
	if err == nil {
		err = w.Flush()
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// appendEntry records a new operation. Undone entries at or after the
// pointer are discarded (a new edit clears redo history, matching the
// in-memory engine), and the log is pruned from the oldest end past the cap.
func appendEntry(path string, entry LogEntry) error {
	header, entries, err := readLog(path)
	if err != nil {
		return err
	}

	if header.Pointer < len(entries) {
		entries = entries[:header.Pointer]
	}
	entries = append(entries, entry)
	if len(entries) > maxLogEntries {
		entries = entries[len(entries)-maxLogEntries:]
	}

	header = LogHeader{Pointer: len(entries), Total: len(entries)}
	return writeLog(path, header, entries)
}

// popForUndo moves the pointer back by up to count and returns the entries
// that left the active range. Only the pointer changes; entry content is
// never rewritten.
func popForUndo(path string, count int) ([]LogEntry, error) {
	header, entries, err := readLog(path)
	if err != nil {
		return nil, err
	}
	// Skipped corrupt entries can leave the pointer past the end.
	if header.Pointer > len(entries) {
		header.Pointer = len(entries)
	}
	if header.Pointer == 0 {
		return nil, errNothingToUndo
	}

	if count > header.Pointer {
		count = header.Pointer
	}
	newPointer := header.Pointer - count
	undone := make([]LogEntry, count)
	copy(undone, entries[newPointer:header.Pointer])

	header.Pointer = newPointer
	header.Total = len(entries)
	if err := writeLog(path, header, entries); err != nil {
		return nil, err
	}
	return undone, nil
}

// pushForRedo re-activates up to count undone entries and returns them.
func pushForRedo(path string, count int) ([]LogEntry, error) {
	header, entries, err := readLog(path)
	if err != nil {
		return nil, err
	}
	// Skipped corrupt entries can leave the pointer past the end.
	if header.Pointer > len(entries) {
		header.Pointer = len(entries)
	}
	undoneCount := len(entries) - header.Pointer
	if undoneCount == 0 {
		return nil, errNothingToRedo
	}

	if count > undoneCount {
		count = undoneCount
	}
	newPointer := header.Pointer + count
	redone := make([]LogEntry, count)
	copy(redone, entries[header.Pointer:newPointer])

	header.Pointer = newPointer
	header.Total = len(entries)
	if err := writeLog(path, header, entries); err != nil {
		return nil, err
	}
	return redone, nil
}

// activeEntries returns the applied prefix of the log.
func activeEntries(path string) ([]LogEntry, error) {
	header, entries, err := readLog(path)
	if err != nil {
		return nil, err
	}
	if header.Pointer > len(entries) {
		header.Pointer = len(entries)
	}
	return entries[:header.Pointer], nil
}

func makeLogEntry(command string, mutations []Mutation) LogEntry {
	logMuts := make([]LogMutation, len(mutations))
	for i, m := range mutations {
		logMuts[i] = LogMutation{X: m.X, Y: m.Y, Old: m.Old, New: m.New}
	}
	return LogEntry{Timestamp: nowTimestamp(), Command: command, Mutations: logMuts}
}

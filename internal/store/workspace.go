// Package store manages relay's on-disk workspace: task artifacts grouped
// by family and task id, and run reports under .relay/runs.
//
// Layout:
//
//	{root}/
//	  {family}/
//	    {task id}/
//	      {artifact}.json
//	  .relay/
//	    runs/
//	      {run id}.json
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// internalDir holds relay's own files inside the workspace.
const internalDir = ".relay"

type Workspace struct {
	root string
}

func New(root string) *Workspace {
	return &Workspace{root: root}
}

func (w *Workspace) Root() string {
	return w.root
}

// ArtifactPath returns the canonical path of a named artifact of a task.
func (w *Workspace) ArtifactPath(family, taskID, name string) string {
	return filepath.Join(w.root, family, taskID, name)
}

// TaskDir returns the directory holding all artifacts of a task.
func (w *Workspace) TaskDir(family, taskID string) string {
	return filepath.Join(w.root, family, taskID)
}

// RemoveTask deletes every artifact of a task and prunes the task
// directory. It reports the number of artifacts removed; a task with no
// artifacts is not an error.
func (w *Workspace) RemoveTask(family, taskID string) (int, error) {
	dir := w.TaskDir(family, taskID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading task directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		removed++
	}

	if err := os.RemoveAll(dir); err != nil {
		return 0, fmt.Errorf("removing task directory: %w", err)
	}
	w.pruneFamily(family)
	return removed, nil
}

// pruneFamily removes the family directory once its last task is gone.
func (w *Workspace) pruneFamily(family string) {
	dir := filepath.Join(w.root, family)
	entries, err := os.ReadDir(dir)
	if err == nil && len(entries) == 0 {
		_ = os.Remove(dir)
	}
}

// FamilyInfo summarizes the stored artifacts of one task family.
type FamilyInfo struct {
	Name      string    `json:"name"`
	Tasks     int       `json:"tasks"`
	Artifacts int       `json:"artifacts"`
	Bytes     int64     `json:"bytes"`
	Modified  time.Time `json:"modified"`
}

// ArtifactInfo describes a single stored artifact.
type ArtifactInfo struct {
	TaskID   string    `json:"task_id"`
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Bytes    int64     `json:"bytes"`
	Modified time.Time `json:"modified"`
}

// Families lists the task families present in the workspace, sorted by
// name. An absent workspace root yields an empty list.
func (w *Workspace) Families() ([]FamilyInfo, error) {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading workspace: %w", err)
	}

	var families []FamilyInfo
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == internalDir {
			continue
		}
		info, err := w.familyInfo(entry.Name())
		if err != nil {
			return nil, err
		}
		families = append(families, info)
	}

	sort.Slice(families, func(i, j int) bool { return families[i].Name < families[j].Name })
	return families, nil
}

func (w *Workspace) familyInfo(family string) (FamilyInfo, error) {
	info := FamilyInfo{Name: family}

	artifacts, err := w.Artifacts(family)
	if err != nil {
		return FamilyInfo{}, err
	}

	tasks := make(map[string]bool)
	for _, a := range artifacts {
		tasks[a.TaskID] = true
		info.Artifacts++
		info.Bytes += a.Bytes
		if a.Modified.After(info.Modified) {
			info.Modified = a.Modified
		}
	}
	info.Tasks = len(tasks)
	return info, nil
}

// Artifacts lists the stored artifacts of one family, sorted by task id
// then name.
func (w *Workspace) Artifacts(family string) ([]ArtifactInfo, error) {
	familyDir := filepath.Join(w.root, family)
	taskDirs, err := os.ReadDir(familyDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading family directory: %w", err)
	}

	var artifacts []ArtifactInfo
	for _, taskDir := range taskDirs {
		if !taskDir.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(familyDir, taskDir.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading task directory: %w", err)
		}
		for _, file := range files {
			if !file.Type().IsRegular() {
				continue
			}
			stat, err := file.Info()
			if err != nil {
				return nil, fmt.Errorf("reading artifact info: %w", err)
			}
			artifacts = append(artifacts, ArtifactInfo{
				TaskID:   taskDir.Name(),
				Name:     file.Name(),
				Path:     filepath.Join(familyDir, taskDir.Name(), file.Name()),
				Bytes:    stat.Size(),
				Modified: stat.ModTime(),
			})
		}
	}

	sort.Slice(artifacts, func(i, j int) bool {
		if artifacts[i].TaskID != artifacts[j].TaskID {
			return artifacts[i].TaskID < artifacts[j].TaskID
		}
		return artifacts[i].Name < artifacts[j].Name
	})
	return artifacts, nil
}

// RemoveFamily deletes every artifact of a family. It reports the number
// of artifacts removed.
func (w *Workspace) RemoveFamily(family string) (int, error) {
	artifacts, err := w.Artifacts(family)
	if err != nil {
		return 0, err
	}
	if err := os.RemoveAll(filepath.Join(w.root, family)); err != nil {
		return 0, fmt.Errorf("removing family directory: %w", err)
	}
	return len(artifacts), nil
}

package job

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/quadrantdb/quadrant/metrics"
	"github.com/quadrantdb/quadrant/storage"
)

type StepState int

const (
	StateSucceeded StepState = iota
	StateError
)

// StepResult is the outcome of one cleanup invocation, with the accumulated
// human readable output text.
type StepResult struct {
	State  StepState
	Output string
	Err    error
}

// CleanupStep drops the resources that are no longer needed after a cube
// build or merge completes: obsolete physical tables, the obsolete staging
// table, and obsolete filesystem paths. A table is only dropped when the tag
// stored on it matches MetadataPrefix, so one deployment never deletes
// another deployment's table of the same name. The first I/O failure aborts
// the remaining sub-steps; prior deletions are not rolled back.
type CleanupStep struct {
	OldTables       []string
	OldStagingTable string
	OldPaths        []string
	MetadataPrefix  string

	// TablesDropped, when set, is incremented once per dropped table.
	TablesDropped metrics.Counter

	output strings.Builder
}

func (s *CleanupStep) Run(conn *storage.Connection) StepResult {
	if err := s.dropOldTables(conn); err != nil {
		return s.errorResult(err)
	}
	if err := s.dropOldPaths(); err != nil {
		return s.errorResult(err)
	}
	if err := s.dropStagingTable(conn); err != nil {
		return s.errorResult(err)
	}
	return StepResult{State: StateSucceeded, Output: s.output.String()}
}

func (s *CleanupStep) errorResult(err error) StepResult {
	log.Errorf("cleanup step finished with error: %v", err)
	s.output.WriteString("\n")
	s.output.WriteString(err.Error())
	return StepResult{State: StateError, Output: s.output.String(), Err: err}
}

func (s *CleanupStep) dropOldTables(conn *storage.Connection) error {
	for _, tableName := range s.OldTables {
		desc, err := conn.GetTableDescriptor(tableName)
		if err != nil {
			return err
		}
		if desc == nil {
			continue
		}
		if strings.EqualFold(desc.Tag, s.MetadataPrefix) {
			if err := conn.DropTable(tableName); err != nil {
				return err
			}
			log.Debugf("dropped table %s", tableName)
			s.output.WriteString("Dropped table " + tableName + " \n")
			s.countDrop()
		} else {
			log.Debugf("skipped table %s", tableName)
			s.output.WriteString("Skipped table " + tableName + " \n")
		}
	}
	return nil
}

func (s *CleanupStep) dropOldPaths() error {
	for _, path := range s.OldPaths {
		if strings.HasSuffix(path, "*") {
			path = path[:len(path)-1]
		}
		_, err := os.Stat(path)
		if os.IsNotExist(err) {
			log.Debugf("path does not exist: %s", path)
			s.output.WriteString("Path not exists: \"" + path + "\" \n")
			continue
		}
		if err != nil {
			return err
		}
		if err := os.RemoveAll(path); err != nil {
			return err
		}
		log.Debugf("dropped path %s", path)
		s.output.WriteString("Dropped path \"" + path + "\" \n")
	}
	return nil
}

func (s *CleanupStep) dropStagingTable(conn *storage.Connection) error {
	if s.OldStagingTable == "" {
		return nil
	}
	if err := conn.DropTable(s.OldStagingTable); err != nil {
		return err
	}
	s.output.WriteString("Dropped staging table " + s.OldStagingTable + " \n")
	s.countDrop()
	return nil
}

func (s *CleanupStep) countDrop() {
	if s.TablesDropped != nil {
		s.TablesDropped.Inc()
	}
}

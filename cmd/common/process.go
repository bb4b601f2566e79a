// Package common contains shared functionality for command handlers
package common

import (
	"errors"
	"fmt"
	"os"

	"fjacquet/statement-report/internal/container"
	"fjacquet/statement-report/internal/export"
	"fjacquet/statement-report/internal/fileutils"
	"fjacquet/statement-report/internal/logging"
	"fjacquet/statement-report/internal/session"
	"fjacquet/statement-report/internal/store"
)

// ErrNoRoles is returned when neither a roles profile nor suggestions are
// available to classify the statement columns.
var ErrNoRoles = errors.New("no column roles: provide a roles profile with --roles or use --suggest")

// ReportOptions selects the input and how its columns are classified.
type ReportOptions struct {
	Input      string
	HasHeaders bool
	Suggest    bool
}

// LoadProfile reads the roles profile. A missing profile is not an error;
// ok reports whether one was found.
func LoadProfile(repo store.Repository, log logging.Logger) (profile store.Profile, ok bool, err error) {
	profile, err = repo.Load()
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("No roles profile found")
		return store.Profile{}, false, nil
	}
	if err != nil {
		return store.Profile{}, false, err
	}
	return profile, true, nil
}

// LoadStatement reads the input file into a new session.
func LoadStatement(c *container.Container, input string, hasHeaders bool) (*session.Session, error) {
	if input == "" {
		return nil, fmt.Errorf("input file is required (--input)")
	}

	sess := c.NewSession()
	sess.Begin()
	text, err := fileutils.ReadStatement(input)
	if err != nil {
		return nil, err
	}
	sess.Load(text, hasHeaders)
	return sess, nil
}

// Classify assigns roles from the profile, or from header suggestions when
// suggest is set.
func Classify(sess *session.Session, profile store.Profile, hasProfile, suggest bool, log logging.Logger) error {
	switch {
	case suggest:
		log.Info("Classifying columns from header suggestions")
		return sess.ApplySuggestions()
	case hasProfile:
		log.Info("Classifying columns from roles profile",
			logging.F(logging.FieldCount, len(profile.Columns)))
		return sess.ApplyRoles(profile.Roles())
	default:
		return ErrNoRoles
	}
}

// BuildReport runs the whole pipeline: profile, statement, classification
// and assembly. The returned session is Ready.
func BuildReport(c *container.Container, opts ReportOptions) (*session.Session, export.Report, error) {
	log := c.GetLogger().WithField(logging.FieldFile, opts.Input)

	profile, hasProfile, err := LoadProfile(c.GetStore(), log)
	if err != nil {
		return nil, export.Report{}, fmt.Errorf("error loading roles profile: %w", err)
	}

	hasHeaders := opts.HasHeaders || (hasProfile && profile.HasHeaders)
	sess, err := LoadStatement(c, opts.Input, hasHeaders)
	if err != nil {
		return nil, export.Report{}, err
	}

	if err := Classify(sess, profile, hasProfile, opts.Suggest, log); err != nil {
		return nil, export.Report{}, err
	}

	result, err := sess.Build()
	if err != nil {
		return nil, export.Report{}, err
	}
	summary, err := sess.Summary()
	if err != nil {
		return nil, export.Report{}, err
	}

	if len(result.Dropped) > 0 {
		log.Warn("Some statement rows were dropped",
			logging.F(logging.FieldDropped, len(result.Dropped)))
	}
	return sess, export.NewReport(sess.ID(), result, summary), nil
}

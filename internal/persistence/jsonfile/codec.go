// Package jsonfile persists the whole user registry as one JSON
// document, rewritten in full on every mutation.
package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"example.com/healthtrack/internal/domain"
)

// Codec serializes the registry to a single file and reads it back at
// startup. A missing or unparseable file degrades to an empty registry
// so the process always starts.
type Codec struct {
	path   string
	logger *logrus.Logger
}

// NewCodec builds a Codec writing to path.
func NewCodec(path string, logger *logrus.Logger) *Codec {
	return &Codec{path: path, logger: logger}
}

type document struct {
	Users []userDocument `json:"users"`
}

// userDocument fixes the field order of the persisted shape. Every
// field is always emitted on write and defaulted on read.
type userDocument struct {
	ID         string                                    `json:"id"`
	Name       string                                    `json:"name"`
	Age        int                                       `json:"age"`
	WeightKg   float64                                   `json:"weightKg"`
	HeightM    float64                                   `json:"heightM"`
	Gender     string                                    `json:"gender"`
	Password   string                                    `json:"password"`
	Waters     *domain.Collection[domain.WaterRecord]    `json:"waters"`
	Sleeps     *domain.Collection[domain.SleepRecord]    `json:"sleeps"`
	Activities *domain.Collection[domain.ActivityRecord] `json:"activities"`
	Categories *domain.CategorySet                       `json:"categories"`
}

// Save writes all users, in the order given, to the target file. The
// document is written to a temp file and renamed so readers never see
// a partial write. Failures are logged and returned, never fatal.
func (c *Codec) Save(users []*domain.User) error {
	doc := document{Users: make([]userDocument, 0, len(users))}
	for _, u := range users {
		doc.Users = append(doc.Users, userDocument{
			ID:         u.Profile.ID,
			Name:       u.Profile.Name,
			Age:        u.Profile.Age,
			WeightKg:   u.Profile.WeightKg,
			HeightM:    u.Profile.HeightM,
			Gender:     u.Profile.Gender,
			Password:   u.Password,
			Waters:     u.Waters,
			Sleeps:     u.Sleeps,
			Activities: u.Activities,
			Categories: u.Categories,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		c.logger.Warnf("failed to encode registry snapshot: %v", err)
		return err
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			c.logger.Warnf("failed to create storage directory %s: %v", dir, err)
			return err
		}
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		c.logger.Warnf("failed to open %s for writing: %v", c.path, err)
		return err
	}
	if err := os.Rename(tmp, c.path); err != nil {
		c.logger.Warnf("failed to replace %s: %v", c.path, err)
		return err
	}
	return nil
}

// Load reads the target file if present. An absent file is a valid
// empty registry; a corrupt one is logged and likewise treated as
// empty. Users without a name are skipped.
func (c *Codec) Load() []*domain.User {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warnf("failed to read %s, starting empty: %v", c.path, err)
		}
		return nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		c.logger.Warnf("failed to parse %s, starting empty: %v", c.path, err)
		return nil
	}

	users := make([]*domain.User, 0, len(doc.Users))
	for _, du := range doc.Users {
		if du.Name == "" {
			continue
		}
		if du.ID == "" {
			du.ID = du.Name
		}
		u := domain.NewUser(domain.UserProfile{
			ID:       du.ID,
			Name:     du.Name,
			Age:      du.Age,
			WeightKg: du.WeightKg,
			HeightM:  du.HeightM,
			Gender:   du.Gender,
		}, du.Password)
		if du.Waters != nil {
			u.Waters = du.Waters
		}
		if du.Sleeps != nil {
			u.Sleeps = du.Sleeps
		}
		if du.Activities != nil {
			u.Activities = du.Activities
		}
		if du.Categories != nil {
			u.Categories = du.Categories
		}
		users = append(users, u)
	}
	return users
}

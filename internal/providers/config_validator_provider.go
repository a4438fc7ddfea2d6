package providers

import (
	"errors"

	"f2g/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return v.Errors
	}
	if c.conf.Storage.Type == "sqlite" && c.conf.Storage.SQLitePath == "" {
		return errors.New("storage.sqlitePath is required for sqlite storage")
	}
	if c.conf.Cache.Enabled && c.conf.Cache.TTL < 0 {
		return errors.New("cache.ttl must not be negative")
	}
	return nil
}

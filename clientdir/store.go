/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2024 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package clientdir

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Store is the transactional username<->client_id directory shared by
// every Application Server instance.
type Store interface {
	// Register upserts (username, clientID) in one transaction: any
	// prior row whose client_id = clientID and username != username is
	// deleted first, so a physical client reused by a new login
	// atomically evicts its previous owner.
	Register(username, clientID string) error
	// UnregisterByUsername deletes the row for username. Idempotent.
	UnregisterByUsername(username string) error
	// UnregisterByClientID deletes the row for clientID. Idempotent.
	UnregisterByClientID(clientID string) error
	// LookupClientID returns the client_id currently registered for
	// username, if any.
	LookupClientID(username string) (clientID string, ok bool, err error)
	// LookupUsername returns the username currently registered for
	// clientID, if any.
	LookupUsername(clientID string) (username string, ok bool, err error)
}

type store struct {
	db *gorm.DB
}

// Open opens the directory store at dsn using the driver inferred from
// its scheme (see DriverFromDSN), migrating the Entry schema.
func Open(dsn string) (Store, error) {
	db, err := gorm.Open(DriverFromDSN(dsn).Dialector(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, ErrOpenStore.Error(err)
	}

	if err = db.AutoMigrate(&Entry{}); err != nil {
		return nil, ErrMigrate.Error(err)
	}

	return &store{db: db}, nil
}

func (s *store) Register(username, clientID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ? AND username <> ?", clientID, username).Delete(&Entry{}).Error; err != nil {
			return err
		}

		entry := Entry{Username: username, ClientID: clientID, LastSeen: time.Now()}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"client_id", "last_seen"}),
		}).Create(&entry).Error
	})
	if err != nil {
		return ErrTransaction.Error(err)
	}
	return nil
}

func (s *store) UnregisterByUsername(username string) error {
	if err := s.db.Where("username = ?", username).Delete(&Entry{}).Error; err != nil {
		return ErrTransaction.Error(err)
	}
	return nil
}

func (s *store) UnregisterByClientID(clientID string) error {
	if err := s.db.Where("client_id = ?", clientID).Delete(&Entry{}).Error; err != nil {
		return ErrTransaction.Error(err)
	}
	return nil
}

func (s *store) LookupClientID(username string) (string, bool, error) {
	var e Entry
	err := s.db.Where("username = ?", username).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, ErrTransaction.Error(err)
	}
	return e.ClientID, true, nil
}

func (s *store) LookupUsername(clientID string) (string, bool, error) {
	var e Entry
	err := s.db.Where("client_id = ?", clientID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, ErrTransaction.Error(err)
	}
	return e.Username, true, nil
}

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"mastercrm/internal/apperr"
	"mastercrm/internal/constants"
	"mastercrm/internal/models"
	"mastercrm/internal/utils"
)

// CreateDistributor создает разносчика листовок. invited_by — имя
// пригласившего, пишется как есть для аудита.
func (s *Store) CreateDistributor(in models.Distributor, actor string) (models.Distributor, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return models.Distributor{}, apperr.Validation("ФИО разносчика обязательно")
	}
	if in.Phone != "" {
		phone, err := utils.ValidatePhoneNumber(in.Phone)
		if err != nil {
			return models.Distributor{}, apperr.Validation("некорректный телефон: %v", err)
		}
		in.Phone = phone
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Distributor{}, apperr.Store("CreateDistributor", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(
		`INSERT INTO distributors (full_name, phone, telegram, invited_by)
         VALUES ($1, $2, $3, $4) RETURNING id`,
		in.FullName, in.Phone, in.Telegram, in.InvitedBy,
	).Scan(&in.ID)
	if err != nil {
		log.Printf("CreateDistributor: ошибка создания разносчика '%s': %v", in.FullName, err)
		return models.Distributor{}, apperr.Store("CreateDistributor", err)
	}

	what := fmt.Sprintf("Добавлен разносчик '%s'", in.FullName)
	if err = appendLogTx(tx, actor, what, constants.LOG_TYPE_LEAFLET); err != nil {
		return models.Distributor{}, apperr.Store("CreateDistributor", err)
	}

	if err = tx.Commit(); err != nil {
		return models.Distributor{}, apperr.Store("CreateDistributor", err)
	}
	return in, nil
}

// GetDistributorByID извлекает разносчика вместе с его документами.
func (s *Store) GetDistributorByID(id int64) (models.Distributor, error) {
	var dist models.Distributor
	err := s.db.QueryRow(
		`SELECT id, full_name, COALESCE(phone, ''), COALESCE(telegram, ''), COALESCE(invited_by, '')
         FROM distributors WHERE id = $1`, id,
	).Scan(&dist.ID, &dist.FullName, &dist.Phone, &dist.Telegram, &dist.InvitedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Distributor{}, apperr.NotFound("разносчик", id)
		}
		log.Printf("GetDistributorByID: ошибка выборки разносчика %d: %v", id, err)
		return models.Distributor{}, apperr.Store("GetDistributorByID", err)
	}

	docs, err := s.listDistributorDocuments(id)
	if err != nil {
		return models.Distributor{}, err
	}
	dist.Documents = docs
	return dist, nil
}

// ListDistributors возвращает всех разносчиков.
func (s *Store) ListDistributors() ([]models.Distributor, error) {
	rows, err := s.db.Query(
		`SELECT id, full_name, COALESCE(phone, ''), COALESCE(telegram, ''), COALESCE(invited_by, '')
         FROM distributors ORDER BY full_name`)
	if err != nil {
		log.Printf("ListDistributors: ошибка выборки разносчиков: %v", err)
		return nil, apperr.Store("ListDistributors", err)
	}
	defer rows.Close()

	var dists []models.Distributor
	for rows.Next() {
		var dist models.Distributor
		if err := rows.Scan(&dist.ID, &dist.FullName, &dist.Phone, &dist.Telegram, &dist.InvitedBy); err != nil {
			return nil, apperr.Store("ListDistributors", err)
		}
		dists = append(dists, dist)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("ListDistributors", err)
	}
	return dists, nil
}

// AttachDistributorDocument привязывает документ (удостоверение,
// подтверждение) к разносчику.
func (s *Store) AttachDistributorDocument(distributorID int64, filePath string) (models.DistributorDocument, error) {
	if filePath == "" {
		return models.DistributorDocument{}, apperr.Validation("путь к файлу обязателен")
	}

	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM distributors WHERE id = $1)`, distributorID).Scan(&exists)
	if err != nil {
		return models.DistributorDocument{}, apperr.Store("AttachDistributorDocument", err)
	}
	if !exists {
		return models.DistributorDocument{}, apperr.NotFound("разносчик", distributorID)
	}

	doc := models.DistributorDocument{DistributorID: distributorID, FilePath: filePath}
	err = s.db.QueryRow(
		`INSERT INTO distributor_documents (distributor_id, file_path, uploaded_at)
         VALUES ($1, $2, NOW()) RETURNING id, uploaded_at`,
		distributorID, filePath,
	).Scan(&doc.ID, &doc.UploadedAt)
	if err != nil {
		log.Printf("AttachDistributorDocument: ошибка привязки файла к разносчику %d: %v", distributorID, err)
		return models.DistributorDocument{}, apperr.Store("AttachDistributorDocument", err)
	}
	return doc, nil
}

func (s *Store) listDistributorDocuments(distributorID int64) ([]models.DistributorDocument, error) {
	rows, err := s.db.Query(
		`SELECT id, distributor_id, file_path, uploaded_at
         FROM distributor_documents WHERE distributor_id = $1 ORDER BY uploaded_at`, distributorID)
	if err != nil {
		return nil, apperr.Store("listDistributorDocuments", err)
	}
	defer rows.Close()

	var docs []models.DistributorDocument
	for rows.Next() {
		var doc models.DistributorDocument
		if err := rows.Scan(&doc.ID, &doc.DistributorID, &doc.FilePath, &doc.UploadedAt); err != nil {
			return nil, apperr.Store("listDistributorDocuments", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("listDistributorDocuments", err)
	}
	return docs, nil
}

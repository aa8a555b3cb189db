// Файл: internal/store/reference_ops.go
// Справочники: города и листовки. Счетчики заказов считаются на лету
// для дашбордов.
package store

import (
	"database/sql"
	"errors"
	"log"
	"strings"

	"mastercrm/internal/apperr"
	"mastercrm/internal/models"
)

// CreateCity добавляет город в справочник.
func (s *Store) CreateCity(name string) (models.City, error) {
	if strings.TrimSpace(name) == "" {
		return models.City{}, apperr.Validation("название города обязательно")
	}
	city := models.City{Name: name}
	err := s.db.QueryRow(`INSERT INTO cities (name) VALUES ($1) RETURNING id`, name).Scan(&city.ID)
	if err != nil {
		log.Printf("CreateCity: ошибка создания города '%s': %v", name, err)
		return models.City{}, apperr.Store("CreateCity", err)
	}
	return city, nil
}

// ListCities возвращает города со счетчиком заказов.
func (s *Store) ListCities() ([]models.City, error) {
	rows, err := s.db.Query(
		`SELECT c.id, c.name, COUNT(o.id)
         FROM cities c
         LEFT JOIN orders o ON o.city_id = c.id
         GROUP BY c.id, c.name
         ORDER BY c.name`)
	if err != nil {
		log.Printf("ListCities: ошибка выборки городов: %v", err)
		return nil, apperr.Store("ListCities", err)
	}
	defer rows.Close()

	var cities []models.City
	for rows.Next() {
		var city models.City
		if err := rows.Scan(&city.ID, &city.Name, &city.OrderCount); err != nil {
			return nil, apperr.Store("ListCities", err)
		}
		cities = append(cities, city)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("ListCities", err)
	}
	return cities, nil
}

// CreateLeaflet добавляет листовку (кампанию) со стоимостью одной штуки.
func (s *Store) CreateLeaflet(name string, value float64) (models.Leaflet, error) {
	if strings.TrimSpace(name) == "" {
		return models.Leaflet{}, apperr.Validation("название листовки обязательно")
	}
	if value < 0 {
		return models.Leaflet{}, apperr.Validation("стоимость листовки не может быть отрицательной")
	}
	leaflet := models.Leaflet{Name: name, Value: value}
	err := s.db.QueryRow(
		`INSERT INTO leaflets (name, value) VALUES ($1, $2) RETURNING id`,
		name, value,
	).Scan(&leaflet.ID)
	if err != nil {
		log.Printf("CreateLeaflet: ошибка создания листовки '%s': %v", name, err)
		return models.Leaflet{}, apperr.Store("CreateLeaflet", err)
	}
	return leaflet, nil
}

// GetLeafletByID извлекает листовку (в т.ч. для расчета прибыли).
func (s *Store) GetLeafletByID(id int64) (models.Leaflet, error) {
	var leaflet models.Leaflet
	err := s.db.QueryRow(
		`SELECT id, name, value FROM leaflets WHERE id = $1`, id,
	).Scan(&leaflet.ID, &leaflet.Name, &leaflet.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Leaflet{}, apperr.NotFound("листовка", id)
		}
		log.Printf("GetLeafletByID: ошибка выборки листовки %d: %v", id, err)
		return models.Leaflet{}, apperr.Store("GetLeafletByID", err)
	}
	return leaflet, nil
}

// ListLeaflets возвращает листовки со счетчиком листовочных заказов.
func (s *Store) ListLeaflets() ([]models.Leaflet, error) {
	rows, err := s.db.Query(
		`SELECT l.id, l.name, l.value, COUNT(lo.id)
         FROM leaflets l
         LEFT JOIN leaflet_orders lo ON lo.leaflet_id = l.id
         GROUP BY l.id, l.name, l.value
         ORDER BY l.name`)
	if err != nil {
		log.Printf("ListLeaflets: ошибка выборки листовок: %v", err)
		return nil, apperr.Store("ListLeaflets", err)
	}
	defer rows.Close()

	var leaflets []models.Leaflet
	for rows.Next() {
		var leaflet models.Leaflet
		if err := rows.Scan(&leaflet.ID, &leaflet.Name, &leaflet.Value, &leaflet.OrderCount); err != nil {
			return nil, apperr.Store("ListLeaflets", err)
		}
		leaflets = append(leaflets, leaflet)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("ListLeaflets", err)
	}
	return leaflets, nil
}

// Файл: internal/api/media.go
package api

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"mastercrm/internal/utils"
)

// maxUploadSize — предел размера multipart-формы (32 MB).
const maxUploadSize = 32 << 20

// MediaStorage сохраняет загруженные файлы на локальный диск под
// уникальными именами и отдает их по имени.
type MediaStorage struct {
	dir string
}

// NewMediaStorage создает каталог хранилища. Пустой dir — каталог
// media_storage рядом с исполняемым файлом.
func NewMediaStorage(dir string) (*MediaStorage, error) {
	if dir == "" {
		executable, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("не удалось определить путь исполняемого файла: %w", err)
		}
		dir = filepath.Join(filepath.Dir(executable), "media_storage")
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог хранилища %s: %w", dir, err)
	}
	log.Printf("Хранилище файлов инициализировано: %s", dir)
	return &MediaStorage{dir: dir}, nil
}

// SaveFromRequest извлекает файл из multipart-формы и сохраняет его.
// Возвращает URL-путь файла для записи на владеющую строку.
func (m *MediaStorage) SaveFromRequest(r *http.Request, field string) (string, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return "", fmt.Errorf("не удалось разобрать multipart-форму: %w", err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("файл '%s' отсутствует в форме", field)
	}
	defer file.Close()

	filename := utils.GenerateUploadFilename(header.Filename)
	dst, err := os.Create(filepath.Join(m.dir, filename))
	if err != nil {
		log.Printf("MediaStorage: ошибка создания файла %s: %v", filename, err)
		return "", fmt.Errorf("не удалось сохранить файл")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		log.Printf("MediaStorage: ошибка записи файла %s: %v", filename, err)
		return "", fmt.Errorf("не удалось сохранить файл")
	}

	return "/media/" + filename, nil
}

// ServeMedia отдает сохраненный файл по имени. Имена с разделителями
// пути отклоняются.
func (h *Handler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" {
		writeJSONError(w, http.StatusBadRequest, "Filename is required")
		return
	}
	if strings.Contains(filename, "..") || strings.Contains(filename, "/") || strings.Contains(filename, "\\") {
		writeJSONError(w, http.StatusBadRequest, "Invalid filename")
		return
	}

	filePath := filepath.Join(h.media.dir, filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filePath)
}

package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"procurehub/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type CacheService interface {
	// Category forest caching (nested tree per department)
	GetForest(ctx context.Context, departmentID uuid.UUID) ([]*models.Category, error)
	SetForest(ctx context.Context, departmentID uuid.UUID, forest []*models.Category, ttl time.Duration) error
	InvalidateForest(ctx context.Context, departmentID uuid.UUID) error

	// Department lookup caching
	GetDepartmentByName(ctx context.Context, name string) (*models.Department, error)
	SetDepartment(ctx context.Context, department *models.Department, ttl time.Duration) error
	InvalidateDepartment(ctx context.Context, name string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as bare host:port
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Warn().Err(pingErr).Str("addr", parsedAddr).Msg("redis ping failed on initialization")
	}

	return &redisCacheService{client: client}
}

func forestKey(departmentID uuid.UUID) string {
	return fmt.Sprintf("procurehub:forest:%s", departmentID.String())
}

func departmentKey(name string) string {
	return fmt.Sprintf("procurehub:department:%s", strings.ToLower(name))
}

func (r *redisCacheService) GetForest(ctx context.Context, departmentID uuid.UUID) ([]*models.Category, error) {
	data, err := r.client.Get(ctx, forestKey(departmentID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var forest []*models.Category
	if err := json.Unmarshal(data, &forest); err != nil {
		return nil, err
	}
	return forest, nil
}

func (r *redisCacheService) SetForest(ctx context.Context, departmentID uuid.UUID, forest []*models.Category, ttl time.Duration) error {
	data, err := json.Marshal(forest)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, forestKey(departmentID), data, ttl).Err()
}

func (r *redisCacheService) InvalidateForest(ctx context.Context, departmentID uuid.UUID) error {
	return r.client.Del(ctx, forestKey(departmentID)).Err()
}

func (r *redisCacheService) GetDepartmentByName(ctx context.Context, name string) (*models.Department, error) {
	data, err := r.client.Get(ctx, departmentKey(name)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var department models.Department
	if err := json.Unmarshal(data, &department); err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *redisCacheService) SetDepartment(ctx context.Context, department *models.Department, ttl time.Duration) error {
	data, err := json.Marshal(department)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, departmentKey(department.Name), data, ttl).Err()
}

func (r *redisCacheService) InvalidateDepartment(ctx context.Context, name string) error {
	return r.client.Del(ctx, departmentKey(name)).Err()
}

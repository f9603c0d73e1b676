package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	rdb *redis.Client
	ctx = context.Background()
)

// InitRedis 初始化Redis连接
func InitRedis(addr, password string, db int) error {
	rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// 测试连接
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb = nil
		return fmt.Errorf("Redis连接失败: %v", err)
	}

	log.Printf("Redis连接成功: %s", addr)
	return nil
}

// Set 设置缓存
func Set(key string, value any, expiration time.Duration) error {
	if rdb == nil {
		return fmt.Errorf("Redis未初始化")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return rdb.Set(ctx, key, data, expiration).Err()
}

// Get 获取缓存
func Get(key string, dest any) error {
	if rdb == nil {
		return fmt.Errorf("Redis未初始化")
	}

	data, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// Delete 删除缓存
func Delete(key string) error {
	if rdb == nil {
		return fmt.Errorf("Redis未初始化")
	}

	return rdb.Del(ctx, key).Err()
}

// Close 关闭Redis连接
func Close() error {
	if rdb != nil {
		return rdb.Close()
	}
	return nil
}

// Provider 将Redis缓存适配为行情缓存接口
type Provider struct{}

func (Provider) Get(key string, dest any) error {
	return Get(key, dest)
}

func (Provider) Set(key string, value any, expiration time.Duration) error {
	return Set(key, value, expiration)
}

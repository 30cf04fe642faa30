package config

import (
	"fmt"
	"reflect"
)

// MergeConfig 把 src 中的非零值覆盖到 dst 上
//   - dst、src 均为 nil 返回错误
//   - 任一为 nil 时返回另一个
//   - 否则深度合并并返回 dst
//
// 零值不会覆盖，因此 bool 字段无法通过 src 关闭
func MergeConfig[T any](dst, src *T) (*T, error) {
	if dst == nil && src == nil {
		return nil, ErrNilConfig
	}
	if dst == nil {
		return src, nil
	}
	if src == nil {
		return dst, nil
	}

	if err := mergeValues(reflect.ValueOf(dst).Elem(), reflect.ValueOf(src).Elem()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMergeFailed, err)
	}
	return dst, nil
}

func mergeValues(dst, src reflect.Value) error {
	if !src.IsValid() || src.IsZero() {
		return nil
	}

	switch dst.Kind() {
	case reflect.Struct:
		return mergeStruct(dst, src)
	case reflect.Map:
		return mergeMap(dst, src)
	case reflect.Ptr:
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return mergeValues(dst.Elem(), src.Elem())
	default:
		// 基本类型与切片直接覆盖
		if dst.CanSet() {
			dst.Set(src)
		}
		return nil
	}
}

func mergeStruct(dst, src reflect.Value) error {
	t := src.Type()
	for i := 0; i < src.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		dstField := dst.FieldByName(field.Name)
		if !dstField.IsValid() || !dstField.CanSet() {
			continue
		}

		if err := mergeValues(dstField, src.Field(i)); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

func mergeMap(dst, src reflect.Value) error {
	if dst.IsNil() {
		dst.Set(reflect.MakeMap(dst.Type()))
	}

	iter := src.MapRange()
	for iter.Next() {
		key, srcValue := iter.Key(), iter.Value()

		existing := dst.MapIndex(key)
		if !existing.IsValid() {
			dst.SetMapIndex(key, srcValue)
			continue
		}

		// map 元素不可寻址，复制后再合并
		merged := reflect.New(dst.Type().Elem()).Elem()
		merged.Set(existing)
		if err := mergeValues(merged, srcValue); err != nil {
			return err
		}
		dst.SetMapIndex(key, merged)
	}
	return nil
}

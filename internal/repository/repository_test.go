package repository

import (
	"testing"
	"time"
)

func TestStampCreatedAt_StrictlyIncreasing(t *testing.T) {
	base := time.Date(2025, 9, 1, 8, 0, 0, 123456789, time.UTC)
	stamps := make([]time.Time, 4)

	stampCreatedAt(base, len(stamps), func(i int) *time.Time { return &stamps[i] })

	if !stamps[0].Equal(base.Truncate(time.Microsecond)) {
		t.Errorf("首条应为截断到微秒的基准时间，实际 %v", stamps[0])
	}
	for i := 1; i < len(stamps); i++ {
		if !stamps[i].After(stamps[i-1]) {
			t.Errorf("第 %d 条 %v 未晚于前一条 %v", i, stamps[i], stamps[i-1])
		}
		if stamps[i].Sub(stamps[i-1]) != time.Microsecond {
			t.Errorf("步长应为 1 微秒，实际 %v", stamps[i].Sub(stamps[i-1]))
		}
	}
}

func TestStampCreatedAt_KeepsExplicitTime(t *testing.T) {
	explicit := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	stamps := []time.Time{{}, explicit, {}}

	stampCreatedAt(time.Now(), len(stamps), func(i int) *time.Time { return &stamps[i] })

	if !stamps[1].Equal(explicit) {
		t.Errorf("已设置的 created_at 不应被覆盖，实际 %v", stamps[1])
	}
	if stamps[0].IsZero() || stamps[2].IsZero() {
		t.Error("零值 created_at 应被填充")
	}
}

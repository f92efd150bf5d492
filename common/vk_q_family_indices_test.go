package common

import "testing"

func TestQueueCreateInfos(t *testing.T) {
	g, p := uint32(0), uint32(2)
	q := QueueFamilyIndices{GraphicsFamily: &g, PresentFamily: &p}
	infos, err := q.toQueueCreateInfos()
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	if len(infos) != 2 || infos[0].QueueFamilyIndex != 0 || infos[1].QueueFamilyIndex != 2 {
		t.Errorf("Expected one queue per distinct family, got %v", infos)
	}

	q.PresentFamily = &g
	infos, _ = q.toQueueCreateInfos()
	if len(infos) != 1 {
		t.Errorf("A shared graphics and present family must only be requested once, got %d", len(infos))
	}

	q.PresentFamily = nil
	if _, err = q.toQueueCreateInfos(); err == nil {
		t.Errorf("Missing present family must result in an error")
	}
}

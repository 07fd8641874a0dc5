package tracker

import (
	"sync"
	"testing"

	"github.com/momentics/virst/api"
)

func TestSharedSnapshotDrain(t *testing.T) {
	s := newSharedSnapshot()
	s.Apply([]api.ChannelUpdate{
		{Kind: api.ChannelBlendshape, Name: "A", Weight: 0.1},
		{Kind: api.ChannelBlendshape, Name: "A", Weight: 0.7},
		{Kind: api.ChannelBone, Name: "Neck", Bone: api.BoneValues{Yaw: 12}},
	})

	out := s.Drain()
	if w, _ := out.Blendshape("A"); w != 0.7 {
		t.Fatalf("last writer should win, got %v", w)
	}
	if yaw, ok := out.BoneAxis("Neck", api.AxisYaw); !ok || yaw != 12 {
		t.Fatalf("Neck.Yaw = %v,%v", yaw, ok)
	}
	if s.Len() != 0 {
		t.Fatal("drain must leave an empty snapshot")
	}
}

func TestSharedSnapshotCloneIsIndependent(t *testing.T) {
	s := newSharedSnapshot()
	s.Apply([]api.ChannelUpdate{{Kind: api.ChannelBlendshape, Name: "A", Weight: 1}})
	c := s.Clone()
	c.Blendshapes["A"] = 0
	s.Read(func(live *api.TrackingSnapshot) {
		if live.Blendshapes["A"] != 1 {
			t.Fatalf("clone aliased live data")
		}
	})
}

func TestSharedSnapshotConcurrentApplyDrain(t *testing.T) {
	s := newSharedSnapshot()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			s.Apply([]api.ChannelUpdate{{Kind: api.ChannelBlendshape, Name: "A", Weight: float32(i)}})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_ = s.Drain()
		}
	}()
	wg.Wait()
	if s.Len() > 1 {
		t.Fatalf("unexpected channel count %d", s.Len())
	}
}

package metrics

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInvocations(t *testing.T) {
	Convey("Given an empty metrics instance", t, func() {
		m := NewInvocations()

		Convey("Then the snapshot is empty", func() {
			So(m.Snapshot(), ShouldBeEmpty)
			So(m.Total(), ShouldEqual, 0)
		})

		Convey("When calls of different outcomes are recorded", func() {
			m.Record("list_memos", Succeeded, 2*time.Second)
			m.Record("list_memos", Failed, 4*time.Second)
			m.Record("get_memo", Faulted, time.Second)

			snapshot := m.Snapshot()

			Convey("Then stats are grouped per tool in name order", func() {
				So(snapshot, ShouldHaveLength, 2)
				So(snapshot[0].Tool, ShouldEqual, "get_memo")
				So(snapshot[0].Faults, ShouldEqual, 1)
				So(snapshot[1].Tool, ShouldEqual, "list_memos")
				So(snapshot[1].Calls, ShouldEqual, 2)
				So(snapshot[1].Failures, ShouldEqual, 1)
				So(snapshot[1].Average(), ShouldEqual, 3*time.Second)
				So(m.Total(), ShouldEqual, 3)
			})

			Convey("Then the snapshot is a copy", func() {
				snapshot[0].Calls = 99
				So(m.Snapshot()[0].Calls, ShouldEqual, 1)
			})

			Convey("Then reset clears everything", func() {
				m.Reset()
				So(m.Total(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given concurrent recorders", t, func() {
		m := NewInvocations()

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				m.Record("list_tags", Succeeded, time.Millisecond)
			}()
		}
		wg.Wait()

		So(m.Total(), ShouldEqual, 50)
	})
}

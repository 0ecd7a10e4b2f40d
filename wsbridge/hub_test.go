package wsbridge_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phanxgames/hanami"
	"github.com/phanxgames/hanami/wsbridge"
)

var _ = Describe("Hub", func() {
	var hub *wsbridge.Hub

	BeforeEach(func() {
		hub = wsbridge.NewHub(hanami.FixedViewport{Width: 800, Height: 600})
	})

	It("tracks elements from Create until Remove", func() {
		a, err := hub.Create(hanami.KindPetal)
		Expect(err).NotTo(HaveOccurred())
		b, err := hub.Create(hanami.KindFlower)
		Expect(err).NotTo(HaveOccurred())
		Expect(hub.Len()).To(Equal(2))

		hub.Remove(a)
		Expect(hub.Len()).To(Equal(1))
		hub.Remove(a)
		Expect(hub.Len()).To(Equal(1))

		b.Complete()
		Expect(hub.Len()).To(BeZero())
	})

	It("copies rendered frames into the snapshot", func() {
		s, _ := hub.Create(hanami.KindPetal)
		Expect(s.Render(hanami.Frame{X: 10, Y: 20, Rotation: 90, Progress: 0.5})).To(Succeed())

		f := hub.Snapshot()
		Expect(f.Width).To(Equal(800.0))
		Expect(f.Height).To(Equal(600.0))
		Expect(f.Elements).To(HaveLen(1))
		el := f.Elements[0]
		Expect(el.Kind).To(Equal(hanami.KindPetal))
		Expect(el.X).To(Equal(10.0))
		Expect(el.Y).To(Equal(20.0))
		Expect(el.Rotation).To(Equal(90.0))
		Expect(el.Visible).To(BeTrue())
	})

	It("reports a removed element as gone", func() {
		s, _ := hub.Create(hanami.KindPetal)
		hub.Remove(s)
		Expect(s.Render(hanami.Frame{})).To(MatchError(hanami.ErrTargetGone))
	})

	It("orders snapshot elements by id and counts frames", func() {
		for i := 0; i < 5; i++ {
			_, _ = hub.Create(hanami.KindPetal)
		}
		first := hub.Snapshot()
		second := hub.Snapshot()
		Expect(second.FrameID).To(Equal(first.FrameID + 1))
		for i := 1; i < len(second.Elements); i++ {
			Expect(second.Elements[i].ID).To(BeNumerically(">", second.Elements[i-1].ID))
		}
	})

	It("carries haiku lines", func() {
		hub.SetLine(1, "Blossoms drift")
		hub.SetLine(7, "ignored")
		Expect(hub.Snapshot().Haiku).To(Equal([3]string{"", "Blossoms drift", ""}))
	})

	It("cancels scheduled entities whose element was removed", func() {
		sched := hanami.NewScheduler(hanami.NewPathGenerator(hanami.FixedViewport{Width: 800, Height: 600}, hanami.DefaultPathBands(), hanami.NewSeededSampler(1)))
		s, _ := hub.Create(hanami.KindPetal)
		id := sched.Add(0, hanami.Entity{Kind: hanami.KindPetal, Duration: time.Second}, s)
		sched.Step(0)
		Expect(sched.Has(id)).To(BeTrue())

		hub.Remove(s)
		sched.Step(100 * time.Millisecond)
		Expect(sched.Has(id)).To(BeFalse())
	})
})

var _ = Describe("Server", func() {
	var (
		srv *wsbridge.Server
		ts  *httptest.Server
	)

	BeforeEach(func() {
		cfg := hanami.DefaultConfig()
		cfg.Seed = 7
		srv = wsbridge.NewServer("", cfg)
		ts = httptest.NewServer(srv.Handler())
	})

	AfterEach(func() {
		ts.Close()
	})

	It("serves the viewer page", func() {
		resp, err := http.Get(ts.URL + "/")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("text/html"))
	})

	It("reports health as JSON", func() {
		srv.Hub.Snapshot()
		resp, err := http.Get(ts.URL + "/health")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		var body map[string]any
		Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
		Expect(body).To(HaveKeyWithValue("frame_id", BeNumerically("==", 1)))
		Expect(body).To(HaveKey("uptime_s"))
		Expect(body).To(HaveKey("clients"))
	})

	It("broadcasts frames to websocket clients", func() {
		url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()
		Eventually(srv.Hub.Clients).Should(Equal(1))

		srv.Engine.Spawner.SpawnBatch(0, hanami.KindPetal, 3)
		srv.Engine.Advance(0)
		srv.Hub.Broadcast()

		Expect(conn.SetReadDeadline(time.Now().Add(2 * time.Second))).To(Succeed())
		_, data, err := conn.ReadMessage()
		Expect(err).NotTo(HaveOccurred())

		var f wsbridge.Frame
		Expect(json.Unmarshal(data, &f)).To(Succeed())
		Expect(f.Elements).To(HaveLen(3))
		Expect(f.Width).To(Equal(float64(hanami.DefaultWidth)))
	})

	It("drops clients that disconnect", func() {
		url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		Expect(err).NotTo(HaveOccurred())
		Eventually(srv.Hub.Clients).Should(Equal(1))
		conn.Close()
		Eventually(srv.Hub.Clients).Should(BeZero())
	})
})

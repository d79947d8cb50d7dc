// Package monitoring turns a running self test into a small web server
// so its progress and resource usage can be watched from outside.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/memscrub/selftest"
)

// Monitor serves the state of a self test over HTTP.
type Monitor struct {
	test       *selftest.Test
	portNumber int
	url        string

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port the monitor listens on. Ports below 1000
// are rejected and replaced with a random one.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the monitoring server. "+
				"Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterTest registers the self test to be monitored.
func (m *Monitor) RegisterTest(t *selftest.Test) {
	m.test = t
}

// CreateProgressBar creates a new progress bar shown by the monitor.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a finished bar from the monitor.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// StartServer starts the monitoring web server and returns its URL.
func (m *Monitor) StartServer() string {
	r := mux.NewRouter()
	r.HandleFunc("/api/status", m.status)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/state", m.state)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	port := ":0"
	if m.portNumber > 1000 {
		port = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", port)
	dieOnErr(err)

	m.url = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring self test at %s\n", m.url)

	go func() {
		err := http.Serve(listener, r)
		dieOnErr(err)
	}()

	return m.url
}

// URL returns the address of the running server. It is empty before
// StartServer is called.
func (m *Monitor) URL() string {
	return m.url
}

type statusRsp struct {
	Seed                uint32 `json:"seed"`
	FirstAddr           uint64 `json:"first_addr"`
	LastAddr            uint64 `json:"last_addr"`
	UnitCount           int    `json:"unit_count"`
	CompletedIterations uint64 `json:"completed_iterations"`
}

func (m *Monitor) status(w http.ResponseWriter, _ *http.Request) {
	if m.test == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	firstAddr, lastAddr := m.test.Region()
	rsp := statusRsp{
		Seed:                m.test.Seed(),
		FirstAddr:           firstAddr,
		LastAddr:            lastAddr,
		UnitCount:           m.test.UnitCount(),
		CompletedIterations: m.test.CompletedIterations(),
	}

	data, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(data)
	dieOnErr(err)
}

func (m *Monitor) state(w http.ResponseWriter, _ *http.Request) {
	if m.test == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.test)
	serializer.SetMaxDepth(1)

	err := serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	data, err := json.Marshal(m.progressBars)
	dieOnErr(err)

	_, err = w.Write(data)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	}

	data, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(data)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	data, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(data)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}

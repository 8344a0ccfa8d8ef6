// Package lvmtest provides an in-memory stand-in for the LVM command line
// tools so reconciliation can be exercised end to end without root or real
// block devices.
package lvmtest

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cuemby/vgctl/pkg/runner"
)

type group struct {
	extentSizeMB int
	volumes      int
	devices      map[string]struct{}
}

// FakeLVM models disks, physical volumes and volume groups and answers the
// vgs, pvs, pvcreate, vgcreate, vgextend, vgreduce and vgremove commands.
// It implements runner.Runner and the filesystem probe.
type FakeLVM struct {
	mu     sync.Mutex
	disks  map[string]struct{}
	links  map[string]string // symlink -> target
	pvs    map[string]string // device -> owning group, "" when unowned
	groups map[string]*group
	fail   map[string]runner.Result
	calls  [][]string
}

// New creates an empty system
func New() *FakeLVM {
	return &FakeLVM{
		disks:  make(map[string]struct{}),
		links:  make(map[string]string),
		pvs:    make(map[string]string),
		groups: make(map[string]*group),
		fail:   make(map[string]runner.Result),
	}
}

// AddDisk makes block devices visible to the probe
func (f *FakeLVM) AddDisk(paths ...string) *FakeLVM {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range paths {
		f.disks[p] = struct{}{}
	}
	return f
}

// AddPV initializes existing disks as unowned physical volumes
func (f *FakeLVM) AddPV(paths ...string) *FakeLVM {
	f.AddDisk(paths...)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range paths {
		if _, ok := f.pvs[p]; !ok {
			f.pvs[p] = ""
		}
	}
	return f
}

// AddGroup creates a group over the given devices, adding disks and PVs as
// needed
func (f *FakeLVM) AddGroup(name string, extentSizeMB, volumes int, devices ...string) *FakeLVM {
	f.AddPV(devices...)
	f.mu.Lock()
	defer f.mu.Unlock()
	g := &group{extentSizeMB: extentSizeMB, volumes: volumes, devices: make(map[string]struct{})}
	for _, d := range devices {
		g.devices[d] = struct{}{}
		f.pvs[d] = name
	}
	f.groups[name] = g
	return f
}

// AddLink adds a symlink such as a /dev/disk/by-id entry. The target may
// itself be a link.
func (f *FakeLVM) AddLink(link, target string) *FakeLVM {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links[link] = target
	return f
}

// Fail makes every later call to the named tool return the given status
func (f *FakeLVM) Fail(tool string, exitCode int, stderr string) *FakeLVM {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[tool] = runner.Result{ExitCode: exitCode, Stderr: stderr}
	return f
}

// Resolve implements the filesystem probe
func (f *FakeLVM) Resolve(path string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	resolved := f.canonical(path)
	if _, ok := f.disks[resolved]; !ok {
		return "", false
	}
	return resolved, true
}

// canonical follows links the way the kernel would, giving up on loops
func (f *FakeLVM) canonical(path string) string {
	for hops := 0; hops < 40; hops++ {
		target, ok := f.links[path]
		if !ok {
			return path
		}
		path = target
	}
	return path
}

// HasGroup reports whether the group exists
func (f *FakeLVM) HasGroup(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.groups[name]
	return ok
}

// GroupDevices returns the sorted members of a group
func (f *FakeLVM) GroupDevices(name string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[name]
	if !ok {
		return nil
	}
	return sortedKeys(g.devices)
}

// ExtentSize returns the extent size a group was created with
func (f *FakeLVM) ExtentSize(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.groups[name]; ok {
		return g.extentSizeMB
	}
	return 0
}

// Calls returns every command run so far as argv slices
func (f *FakeLVM) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// MutatingCalls returns the recorded calls other than vgs and pvs
func (f *FakeLVM) MutatingCalls() [][]string {
	var out [][]string
	for _, c := range f.Calls() {
		switch filepath.Base(c[0]) {
		case "vgs", "pvs":
			continue
		}
		out = append(out, c)
	}
	return out
}

// Run implements runner.Runner
func (f *FakeLVM) Run(ctx context.Context, name string, args ...string) (runner.Result, error) {
	if err := ctx.Err(); err != nil {
		return runner.Result{ExitCode: -1}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, append([]string{name}, args...))

	tool := filepath.Base(name)
	if res, ok := f.fail[tool]; ok {
		return res, nil
	}

	if len(args) == 1 && args[0] == "--version" {
		return runner.Result{Stdout: "  LVM version:     2.03.16(2) (2022-05-18)\n"}, nil
	}

	// The real tools accept any path to a device and act on the device node.
	dereferenced := make([]string, len(args))
	for i, a := range args {
		dereferenced[i] = f.canonical(a)
	}
	args = dereferenced

	switch tool {
	case "vgs":
		return f.vgs(), nil
	case "pvs":
		return f.pvsReport(), nil
	case "pvcreate":
		return f.pvcreate(args), nil
	case "vgcreate":
		return f.vgcreate(args), nil
	case "vgextend":
		return f.vgextend(args), nil
	case "vgreduce":
		return f.vgreduce(args), nil
	case "vgremove":
		return f.vgremove(args), nil
	}
	return runner.Result{ExitCode: 127, Stderr: fmt.Sprintf("%s: command not found\n", name)}, nil
}

func (f *FakeLVM) vgs() runner.Result {
	var b strings.Builder
	for _, name := range sortedKeys(f.groups) {
		g := f.groups[name]
		fmt.Fprintf(&b, "  %s;%d;%d\n", name, len(g.devices), g.volumes)
	}
	return runner.Result{Stdout: b.String()}
}

func (f *FakeLVM) pvsReport() runner.Result {
	var b strings.Builder
	for _, dev := range sortedKeys(f.pvs) {
		fmt.Fprintf(&b, "  %s;%s\n", dev, f.pvs[dev])
	}
	return runner.Result{Stdout: b.String()}
}

func (f *FakeLVM) pvcreate(args []string) runner.Result {
	if len(args) == 0 {
		return usage("pvcreate")
	}
	dev := args[len(args)-1]
	if _, ok := f.disks[dev]; !ok {
		return failure(5, "No device found for %s.", dev)
	}
	if owner := f.pvs[dev]; owner != "" {
		return failure(5, "Can't initialize physical volume %q of volume group %q without -ff", dev, owner)
	}
	f.pvs[dev] = ""
	return runner.Result{}
}

func (f *FakeLVM) vgcreate(args []string) runner.Result {
	idx := indexOf(args, "-s")
	if idx < 0 || len(args) < idx+4 {
		return usage("vgcreate")
	}
	size, err := strconv.Atoi(strings.TrimSuffix(args[idx+1], "m"))
	if err != nil {
		return failure(3, "Invalid argument for --physicalextentsize: %s", args[idx+1])
	}
	name := args[idx+2]
	devs := args[idx+3:]
	if _, ok := f.groups[name]; ok {
		return failure(5, "A volume group called %s already exists.", name)
	}
	if res, ok := f.claimable(devs); !ok {
		return res
	}
	g := &group{extentSizeMB: size, devices: make(map[string]struct{})}
	for _, d := range devs {
		g.devices[d] = struct{}{}
		f.pvs[d] = name
	}
	f.groups[name] = g
	return runner.Result{}
}

func (f *FakeLVM) vgextend(args []string) runner.Result {
	if len(args) < 2 {
		return usage("vgextend")
	}
	name, devs := args[0], args[1:]
	g, ok := f.groups[name]
	if !ok {
		return failure(5, "Volume group %q not found", name)
	}
	if res, ok := f.claimable(devs); !ok {
		return res
	}
	for _, d := range devs {
		g.devices[d] = struct{}{}
		f.pvs[d] = name
	}
	return runner.Result{}
}

func (f *FakeLVM) vgreduce(args []string) runner.Result {
	rest := args
	if len(rest) > 0 && rest[0] == "--force" {
		rest = rest[1:]
	}
	if len(rest) < 2 {
		return usage("vgreduce")
	}
	name, devs := rest[0], rest[1:]
	g, ok := f.groups[name]
	if !ok {
		return failure(5, "Volume group %q not found", name)
	}
	for _, d := range devs {
		if _, ok := g.devices[d]; !ok {
			return failure(5, "Physical volume %q not in volume group %q", d, name)
		}
	}
	if len(devs) >= len(g.devices) {
		return failure(5, "Can't remove final physical volume from volume group %q", name)
	}
	for _, d := range devs {
		delete(g.devices, d)
		f.pvs[d] = ""
	}
	return runner.Result{}
}

func (f *FakeLVM) vgremove(args []string) runner.Result {
	rest := args
	if len(rest) > 0 && rest[0] == "--force" {
		rest = rest[1:]
	}
	if len(rest) != 1 {
		return usage("vgremove")
	}
	name := rest[0]
	g, ok := f.groups[name]
	if !ok {
		return failure(5, "Volume group %q not found", name)
	}
	for d := range g.devices {
		f.pvs[d] = ""
	}
	delete(f.groups, name)
	return runner.Result{}
}

func (f *FakeLVM) claimable(devs []string) (runner.Result, bool) {
	for _, d := range devs {
		owner, ok := f.pvs[d]
		if !ok {
			return failure(5, "Physical volume %s not found", d), false
		}
		if owner != "" {
			return failure(5, "Physical volume %q is already in volume group %q", d, owner), false
		}
	}
	return runner.Result{}, true
}

func usage(tool string) runner.Result {
	return failure(3, "%s: invalid arguments", tool)
}

func failure(code int, format string, args ...interface{}) runner.Result {
	return runner.Result{ExitCode: code, Stderr: fmt.Sprintf("  "+format+"\n", args...)}
}

func indexOf(args []string, s string) int {
	for i, a := range args {
		if a == s {
			return i
		}
	}
	return -1
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

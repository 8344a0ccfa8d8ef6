/*
Package executor turns planned actions into LVM commands and runs them.

Each action maps to one command:

	CreateDevice(d)           pvcreate -f [deviceOptions] d
	CreateGroup(g, s, ds)     vgcreate [groupOptions] -s <s>m g ds...
	ExtendGroup(g, ds)        vgextend g ds...
	ReduceGroup(g, ds)        vgreduce --force g ds...
	RemoveGroup(g)            vgremove --force g

Actions run strictly in plan order. The first failure halts the run and
nothing is rolled back; the returned Applied lists what completed so the
caller can report a partially applied plan. In simulation no command is
run at all.
*/
package executor

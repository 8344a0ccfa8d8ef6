/*
Package config loads vgctl's tool configuration and volume group manifests.

Both file kinds are read as YAML (.yaml, .yml) or TOML (.toml), chosen by
extension. The tool configuration only holds settings:

	logLevel: info
	jsonLogs: false
	commandTimeout: 2m
	tools:
	  vgcreate: /usr/sbin/vgcreate
	metricsFile: /var/lib/node_exporter/textfile/vgctl.prom
	historyPath: /var/lib/vgctl/history.db
	historyKeep: 100

A manifest declares one volume group:

	apiVersion: vgctl/v1
	kind: VolumeGroup
	metadata:
	  name: vg_data
	spec:
	  devices: [/dev/sdb1, /dev/sdc1]
	  extentSizeMB: 32
	  state: present
*/
package config

/*
Package inventory reads the current LVM state through vgs and pvs.

Both reports are requested without headers and with ";" as the field
separator:

	vgs --noheadings --separator ; -o vg_name,pv_count,lv_count
	pvs --noheadings --separator ; -o pv_name,vg_name

Parsing is strict. A line with the wrong number of fields or a count that
is not a non-negative integer fails the whole query instead of being
skipped, because a dropped line could hide a device that is in use or a
group that still holds volumes.
*/
package inventory

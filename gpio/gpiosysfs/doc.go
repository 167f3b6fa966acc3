/*
Package gpiosysfs implements the Linux sysfs backend of the portable GPIO
layer.

Ref: https://www.kernel.org/doc/Documentation/gpio/sysfs.txt

Opening a pin exports it and keeps its direction and value attribute files
open until Close. The export set under /sys/class/gpio is shared with every
other user of the legacy sysfs interface: a pin opened here may already have
been exported by another actor (the open may succeed or fail depending on
permissions), and a failed Close may leave the export behind.
*/
package gpiosysfs
